package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/metrics"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/repositories"
)

// fakeRentalStore applies ledger mutations to in-memory state the same way
// the Postgres repository does, so the tests can assert on the combined
// effect of rental rows, product stock and customer aggregates.
type fakeRentalStore struct {
	rentals  map[int]*models.Rental
	product  *models.Product
	customer *models.Customer
	nextID   int
}

func newFakeStore(product *models.Product, customer *models.Customer) *fakeRentalStore {
	return &fakeRentalStore{
		rentals:  make(map[int]*models.Rental),
		product:  product,
		customer: customer,
		nextID:   1,
	}
}

func (f *fakeRentalStore) Create(_ context.Context, rental *models.Rental) error {
	if f.product.AvailableQuantity < rental.Quantity {
		return apperrors.InsufficientInventory(f.product.AvailableQuantity)
	}
	rental.ID = f.nextID
	f.nextID++
	rental.Status = models.RentalStatusActive
	f.product.AvailableQuantity -= rental.Quantity
	f.customer.TotalRentals++
	f.customer.TotalSpent += rental.TotalAmount
	stored := *rental
	f.rentals[rental.ID] = &stored
	return nil
}

func (f *fakeRentalStore) Get(_ context.Context, id int) (*models.Rental, error) {
	rental, ok := f.rentals[id]
	if !ok {
		return nil, apperrors.NotFound("rental", id)
	}
	copied := *rental
	copied.Product = f.product
	copied.Customer = f.customer
	return &copied, nil
}

func (f *fakeRentalStore) List(_ context.Context, _ models.RentalFilter) ([]*models.Rental, int, error) {
	out := make([]*models.Rental, 0, len(f.rentals))
	for _, r := range f.rentals {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRentalStore) Return(_ context.Context, u repositories.ReturnUpdate) error {
	rental, ok := f.rentals[u.RentalID]
	if !ok {
		return apperrors.NotFound("rental", u.RentalID)
	}
	if rental.Status != models.RentalStatusActive {
		return apperrors.InvalidState("rental is not active")
	}
	rental.Status = models.RentalStatusReturned
	rental.ReturnedDate = &u.ReturnedDate
	rental.ActualDays = &u.ActualDays
	rental.FinalAmount = &u.FinalAmount
	f.product.AvailableQuantity += u.Quantity
	f.customer.TotalSpent += u.AmountDelta
	return nil
}

func (f *fakeRentalStore) Edit(_ context.Context, u repositories.EditUpdate) error {
	rental, ok := f.rentals[u.RentalID]
	if !ok {
		return apperrors.NotFound("rental", u.RentalID)
	}
	if rental.Status != models.RentalStatusActive {
		return apperrors.InvalidState("rental is not active")
	}
	if u.QuantityDelta > 0 && f.product.AvailableQuantity < u.QuantityDelta {
		return apperrors.InsufficientInventory(f.product.AvailableQuantity)
	}
	rental.Quantity = u.NewQuantity
	rental.StartDate = u.StartDate
	rental.EndDate = u.EndDate
	rental.TotalAmount = u.NewTotalAmount
	rental.Notes = u.Notes
	f.product.AvailableQuantity -= u.QuantityDelta
	f.customer.TotalSpent += u.AmountDelta
	return nil
}

func (f *fakeRentalStore) Cancel(_ context.Context, id int) error {
	rental, ok := f.rentals[id]
	if !ok {
		return apperrors.NotFound("rental", id)
	}
	if rental.Status == models.RentalStatusActive {
		f.product.AvailableQuantity += rental.Quantity
		f.customer.TotalRentals--
		f.customer.TotalSpent -= rental.TotalAmount
	}
	delete(f.rentals, id)
	return nil
}

func (f *fakeRentalStore) Stats(_ context.Context) (*models.RentalStats, error) {
	stats := &models.RentalStats{}
	for _, r := range f.rentals {
		stats.Total++
		switch r.Status {
		case models.RentalStatusActive:
			stats.Active++
		case models.RentalStatusReturned:
			stats.Returned++
			stats.TotalRevenue += *r.FinalAmount
		}
	}
	return stats, nil
}

type fakeProductReader struct{ product *models.Product }

func (f fakeProductReader) Get(_ context.Context, id int) (*models.Product, error) {
	if f.product == nil || f.product.ID != id {
		return nil, apperrors.NotFound("product", id)
	}
	return f.product, nil
}

type fakeCustomerReader struct{ customer *models.Customer }

func (f fakeCustomerReader) Get(_ context.Context, id int) (*models.Customer, error) {
	if f.customer == nil || f.customer.ID != id {
		return nil, apperrors.NotFound("customer", id)
	}
	return f.customer, nil
}

func newLedgerFixture(t *testing.T) (*RentalService, *models.Product, *models.Customer, *fakeRentalStore) {
	t.Helper()
	product := &models.Product{
		ID:                1,
		Name:              "Dell PowerEdge R740",
		Price:             10000,
		TotalQuantity:     5,
		AvailableQuantity: 5,
	}
	customer := &models.Customer{ID: 1, Name: "Aziz Karimov", Phone: "+998901234567"}
	store := newFakeStore(product, customer)
	svc := NewRentalService(store, fakeProductReader{product}, fakeCustomerReader{customer})
	return svc, product, customer, store
}

func TestCreateRental(t *testing.T) {
	ctx := context.Background()

	t.Run("charges days times rate times quantity and takes stock", func(t *testing.T) {
		svc, product, customer, _ := newLedgerFixture(t)

		rental, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			Quantity:   2,
			StartDate:  "2026-01-10",
			EndDate:    "2026-01-13",
		})
		require.NoError(t, err)

		assert.Equal(t, models.RentalStatusActive, rental.Status)
		assert.Equal(t, 10000.0, rental.DailyRate)
		assert.Equal(t, 60000.0, rental.TotalAmount) // 3 days * 10000 * 2
		assert.Equal(t, 3, product.AvailableQuantity)
		assert.Equal(t, 1, customer.TotalRentals)
		assert.Equal(t, 60000.0, customer.TotalSpent)
	})

	t.Run("defaults omitted quantity to one", func(t *testing.T) {
		svc, product, _, _ := newLedgerFixture(t)

		rental, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			StartDate:  "2026-01-10",
			EndDate:    "2026-01-11",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, rental.Quantity)
		assert.Equal(t, 4, product.AvailableQuantity)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture(t)

		_, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			Quantity:   -3,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("open-ended rental has no projected charge", func(t *testing.T) {
		svc, _, customer, _ := newLedgerFixture(t)

		rental, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			Quantity:   1,
			StartDate:  "2026-01-10",
		})
		require.NoError(t, err)
		assert.Nil(t, rental.EndDate)
		assert.Zero(t, rental.TotalAmount)
		assert.Zero(t, customer.TotalSpent)
	})

	t.Run("insufficient stock leaves all state untouched", func(t *testing.T) {
		svc, product, customer, store := newLedgerFixture(t)

		_, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			Quantity:   6,
			StartDate:  "2026-01-10",
			EndDate:    "2026-01-12",
		})
		require.ErrorIs(t, err, apperrors.ErrInsufficientInventory)

		assert.Equal(t, 5, product.AvailableQuantity)
		assert.Equal(t, 0, customer.TotalRentals)
		assert.Zero(t, customer.TotalSpent)
		assert.Empty(t, store.rentals)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture(t)

		_, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  99,
			CustomerID: 1,
			Quantity:   1,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestReturnRental(t *testing.T) {
	ctx := context.Background()

	mustCreate := func(t *testing.T, svc *RentalService, quantity int, start, end string) *models.Rental {
		t.Helper()
		rental, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			Quantity:   quantity,
			StartDate:  start,
			EndDate:    end,
		})
		require.NoError(t, err)
		return rental
	}

	t.Run("bills actual days and reconciles the spend", func(t *testing.T) {
		svc, product, customer, _ := newLedgerFixture(t)
		rental := mustCreate(t, svc, 2, "2026-01-10", "2026-01-13") // projected 60000

		returned, err := svc.ReturnRental(ctx, rental.ID, &models.ReturnRentalRequest{
			ReturnDate: "2026-01-15",
		})
		require.NoError(t, err)

		assert.Equal(t, models.RentalStatusReturned, returned.Status)
		require.NotNil(t, returned.ActualDays)
		assert.Equal(t, 5, *returned.ActualDays)
		require.NotNil(t, returned.FinalAmount)
		assert.Equal(t, 100000.0, *returned.FinalAmount)

		assert.Equal(t, 5, product.AvailableQuantity, "stock restored")
		assert.Equal(t, 100000.0, customer.TotalSpent, "spend adjusted by final minus projected")
		assert.Equal(t, 1, customer.TotalRentals, "returns keep the rental count")
	})

	t.Run("same-day return still bills one day", func(t *testing.T) {
		svc, _, customer, _ := newLedgerFixture(t)
		rental := mustCreate(t, svc, 1, "2026-01-10", "2026-01-13") // projected 30000

		returned, err := svc.ReturnRental(ctx, rental.ID, &models.ReturnRentalRequest{
			ReturnDate: "2026-01-10",
		})
		require.NoError(t, err)

		require.NotNil(t, returned.ActualDays)
		assert.Equal(t, 1, *returned.ActualDays)
		assert.Equal(t, 10000.0, *returned.FinalAmount)
		assert.Equal(t, 10000.0, customer.TotalSpent)
	})

	t.Run("returning twice is rejected", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture(t)
		rental := mustCreate(t, svc, 1, "2026-01-10", "2026-01-12")

		_, err := svc.ReturnRental(ctx, rental.ID, &models.ReturnRentalRequest{ReturnDate: "2026-01-12"})
		require.NoError(t, err)

		_, err = svc.ReturnRental(ctx, rental.ID, &models.ReturnRentalRequest{ReturnDate: "2026-01-13"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestUpdateRental(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc *RentalService) *models.Rental {
		t.Helper()
		rental, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			Quantity:   2,
			StartDate:  "2026-01-10",
			EndDate:    "2026-01-13",
		})
		require.NoError(t, err)
		return rental
	}

	t.Run("quantity change moves stock and recomputes the charge", func(t *testing.T) {
		svc, product, customer, _ := newLedgerFixture(t)
		rental := create(t, svc) // qty 2, 60000, stock 3

		updated, err := svc.UpdateRental(ctx, rental.ID, &models.UpdateRentalRequest{Quantity: 3})
		require.NoError(t, err)

		assert.Equal(t, 3, updated.Quantity)
		assert.Equal(t, 90000.0, updated.TotalAmount)
		assert.Equal(t, 2, product.AvailableQuantity)
		assert.Equal(t, 90000.0, customer.TotalSpent)
	})

	t.Run("unchanged fields make the edit a no-op", func(t *testing.T) {
		svc, product, customer, _ := newLedgerFixture(t)
		rental := create(t, svc)

		updated, err := svc.UpdateRental(ctx, rental.ID, &models.UpdateRentalRequest{})
		require.NoError(t, err)

		assert.Equal(t, rental.Quantity, updated.Quantity)
		assert.Equal(t, rental.TotalAmount, updated.TotalAmount)
		assert.Equal(t, 3, product.AvailableQuantity)
		assert.Equal(t, 60000.0, customer.TotalSpent)
	})

	t.Run("increase beyond stock is rejected without side effects", func(t *testing.T) {
		svc, product, customer, _ := newLedgerFixture(t)
		rental := create(t, svc) // stock 3 remaining

		_, err := svc.UpdateRental(ctx, rental.ID, &models.UpdateRentalRequest{Quantity: 6})
		require.ErrorIs(t, err, apperrors.ErrInsufficientInventory)

		assert.Equal(t, 3, product.AvailableQuantity)
		assert.Equal(t, 60000.0, customer.TotalSpent)
	})

	t.Run("returned rentals cannot be edited", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture(t)
		rental := create(t, svc)
		_, err := svc.ReturnRental(ctx, rental.ID, &models.ReturnRentalRequest{ReturnDate: "2026-01-13"})
		require.NoError(t, err)

		_, err = svc.UpdateRental(ctx, rental.ID, &models.UpdateRentalRequest{Quantity: 1})
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestCancelRental(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling an active rental reverses its effects", func(t *testing.T) {
		svc, product, customer, store := newLedgerFixture(t)
		rental, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			Quantity:   2,
			StartDate:  "2026-01-10",
			EndDate:    "2026-01-13",
		})
		require.NoError(t, err)

		require.NoError(t, svc.CancelRental(ctx, rental.ID))

		assert.Equal(t, 5, product.AvailableQuantity)
		assert.Equal(t, 0, customer.TotalRentals)
		assert.Zero(t, customer.TotalSpent)
		assert.Empty(t, store.rentals)
	})

	t.Run("cancelling a returned rental keeps historical totals", func(t *testing.T) {
		svc, product, customer, _ := newLedgerFixture(t)
		rental, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
			ProductID:  1,
			CustomerID: 1,
			Quantity:   1,
			StartDate:  "2026-01-10",
			EndDate:    "2026-01-12",
		})
		require.NoError(t, err)
		_, err = svc.ReturnRental(ctx, rental.ID, &models.ReturnRentalRequest{ReturnDate: "2026-01-12"})
		require.NoError(t, err)

		require.NoError(t, svc.CancelRental(ctx, rental.ID))

		assert.Equal(t, 5, product.AvailableQuantity)
		assert.Equal(t, 1, customer.TotalRentals)
		assert.Equal(t, 20000.0, customer.TotalSpent)
	})

	t.Run("unknown rental", func(t *testing.T) {
		svc, _, _, _ := newLedgerFixture(t)
		assert.ErrorIs(t, svc.CancelRental(ctx, 42), apperrors.ErrNotFound)
	})
}

func TestLedgerCounters(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newLedgerFixture(t)

	createdBefore := testutil.ToFloat64(metrics.RentalsCreatedTotal)
	returnedBefore := testutil.ToFloat64(metrics.RentalsReturnedTotal)

	rental, err := svc.CreateRental(ctx, &models.CreateRentalRequest{
		ProductID:  1,
		CustomerID: 1,
		Quantity:   1,
		StartDate:  "2026-01-10",
		EndDate:    "2026-01-12",
	})
	require.NoError(t, err)
	assert.Equal(t, createdBefore+1, testutil.ToFloat64(metrics.RentalsCreatedTotal))
	assert.Equal(t, returnedBefore, testutil.ToFloat64(metrics.RentalsReturnedTotal))

	_, err = svc.ReturnRental(ctx, rental.ID, &models.ReturnRentalRequest{ReturnDate: "2026-01-12"})
	require.NoError(t, err)
	assert.Equal(t, returnedBefore+1, testutil.ToFloat64(metrics.RentalsReturnedTotal))

	// A rejected creation must not count.
	_, err = svc.CreateRental(ctx, &models.CreateRentalRequest{ProductID: 1, CustomerID: 1, Quantity: -1})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, createdBefore+1, testutil.ToFloat64(metrics.RentalsCreatedTotal))
}

func TestListRentalsPaginationDefaults(t *testing.T) {
	svc, _, _, _ := newLedgerFixture(t)

	list, err := svc.ListRentals(context.Background(), models.RentalFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.CurrentPage)
	assert.Zero(t, list.Total)
	assert.Zero(t, list.TotalPages)
}
