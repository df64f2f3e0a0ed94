package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/repositories"
	"rentacloud-backend/internal/services"
)

// memoryRentals is a minimal in-memory services.RentalStore for routing the
// handlers through a real service.
type memoryRentals struct {
	rentals map[int]*models.Rental
	product *models.Product
	nextID  int
}

func (m *memoryRentals) Create(_ context.Context, rental *models.Rental) error {
	if m.product.AvailableQuantity < rental.Quantity {
		return apperrors.InsufficientInventory(m.product.AvailableQuantity)
	}
	rental.ID = m.nextID
	m.nextID++
	rental.Status = models.RentalStatusActive
	m.product.AvailableQuantity -= rental.Quantity
	stored := *rental
	m.rentals[rental.ID] = &stored
	return nil
}

func (m *memoryRentals) Get(_ context.Context, id int) (*models.Rental, error) {
	rental, ok := m.rentals[id]
	if !ok {
		return nil, apperrors.NotFound("rental", id)
	}
	copied := *rental
	copied.Product = m.product
	return &copied, nil
}

func (m *memoryRentals) List(_ context.Context, filter models.RentalFilter) ([]*models.Rental, int, error) {
	out := make([]*models.Rental, 0, len(m.rentals))
	for _, r := range m.rentals {
		if filter.CustomerID != 0 && r.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ProductID != 0 && r.ProductID != filter.ProductID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *memoryRentals) Return(_ context.Context, u repositories.ReturnUpdate) error {
	rental, ok := m.rentals[u.RentalID]
	if !ok {
		return apperrors.NotFound("rental", u.RentalID)
	}
	rental.Status = models.RentalStatusReturned
	rental.ReturnedDate = &u.ReturnedDate
	rental.ActualDays = &u.ActualDays
	rental.FinalAmount = &u.FinalAmount
	m.product.AvailableQuantity += u.Quantity
	return nil
}

func (m *memoryRentals) Edit(_ context.Context, u repositories.EditUpdate) error {
	rental, ok := m.rentals[u.RentalID]
	if !ok {
		return apperrors.NotFound("rental", u.RentalID)
	}
	rental.Quantity = u.NewQuantity
	rental.TotalAmount = u.NewTotalAmount
	return nil
}

func (m *memoryRentals) Cancel(_ context.Context, id int) error {
	if _, ok := m.rentals[id]; !ok {
		return apperrors.NotFound("rental", id)
	}
	delete(m.rentals, id)
	return nil
}

func (m *memoryRentals) Stats(_ context.Context) (*models.RentalStats, error) {
	return &models.RentalStats{Total: len(m.rentals)}, nil
}

type staticProduct struct{ product *models.Product }

func (s staticProduct) Get(_ context.Context, id int) (*models.Product, error) {
	if s.product.ID != id {
		return nil, apperrors.NotFound("product", id)
	}
	return s.product, nil
}

type staticCustomer struct{ customer *models.Customer }

func (s staticCustomer) Get(_ context.Context, id int) (*models.Customer, error) {
	if s.customer.ID != id {
		return nil, apperrors.NotFound("customer", id)
	}
	return s.customer, nil
}

func newTestRouter(t *testing.T) (*mux.Router, *memoryRentals) {
	t.Helper()

	product := &models.Product{ID: 1, Name: "Rack Server", Price: 10000, TotalQuantity: 3, AvailableQuantity: 3}
	customer := &models.Customer{ID: 1, Name: "Test", Phone: "+998901234567"}
	store := &memoryRentals{rentals: make(map[int]*models.Rental), product: product, nextID: 1}

	svc := services.NewRentalService(store, staticProduct{product}, staticCustomer{customer})
	handler := NewRentalHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/api/rentals", handler.CreateRental).Methods("POST")
	r.HandleFunc("/api/rentals", handler.ListRentals).Methods("GET")
	r.HandleFunc("/api/rentals/{id}", handler.GetRental).Methods("GET")
	r.HandleFunc("/api/rentals/{id}", handler.CancelRental).Methods("DELETE")
	r.HandleFunc("/api/rentals/{id}/return", handler.ReturnRental).Methods("PATCH")
	return r, store
}

func TestRentalEndpoints(t *testing.T) {
	t.Run("create returns 201 with the projected amount", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"product_id":1,"customer_id":1,"quantity":2,"start_date":"2026-01-10","end_date":"2026-01-13"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var rental models.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rental))
		assert.Equal(t, 60000.0, rental.TotalAmount)
		assert.Equal(t, models.RentalStatusActive, rental.Status)
	})

	t.Run("insufficient inventory maps to 409", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"product_id":1,"customer_id":1,"quantity":5,"start_date":"2026-01-10","end_date":"2026-01-12"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "available")
	})

	t.Run("bad quantity maps to 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"product_id":1,"customer_id":1,"quantity":-1}`
		req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown rental maps to 404", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/rentals/99", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("return closes the rental", func(t *testing.T) {
		router, store := newTestRouter(t)

		create := `{"product_id":1,"customer_id":1,"quantity":1,"start_date":"2026-01-10","end_date":"2026-01-13"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(create))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		req = httptest.NewRequest(http.MethodPatch, "/api/rentals/1/return", strings.NewReader(`{"return_date":"2026-01-15"}`))
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var rental models.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rental))
		assert.Equal(t, models.RentalStatusReturned, rental.Status)
		require.NotNil(t, rental.FinalAmount)
		assert.Equal(t, 50000.0, *rental.FinalAmount)
		assert.Equal(t, 3, store.product.AvailableQuantity)
	})

	t.Run("second return maps to 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		create := `{"product_id":1,"customer_id":1,"quantity":1,"start_date":"2026-01-10","end_date":"2026-01-12"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(create))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		for i, want := range []int{http.StatusOK, http.StatusBadRequest} {
			req = httptest.NewRequest(http.MethodPatch, "/api/rentals/1/return", strings.NewReader(`{"return_date":"2026-01-12"}`))
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, want, rec.Code, "return attempt %d", i+1)
		}
	})

	t.Run("list narrows by customer and product query params", func(t *testing.T) {
		router, _ := newTestRouter(t)

		create := `{"product_id":1,"customer_id":1,"quantity":1,"start_date":"2026-01-10"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(create))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		for query, want := range map[string]int{
			"customer=1&product=1": 1,
			"customer=2":           0,
			"product=9":            0,
		} {
			req = httptest.NewRequest(http.MethodGet, "/api/rentals?"+query, nil)
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var list models.RentalList
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
			assert.Equal(t, want, list.Total, "query %q", query)
		}
	})

	t.Run("cancel removes the rental", func(t *testing.T) {
		router, store := newTestRouter(t)

		create := `{"product_id":1,"customer_id":1,"quantity":1,"start_date":"2026-01-10"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(create))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		req = httptest.NewRequest(http.MethodDelete, "/api/rentals/1", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, store.rentals)
	})
}
