package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
)

type fakeCustomerStore struct {
	customers map[int]*models.Customer
	nextID    int
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[int]*models.Customer), nextID: 1}
}

func (f *fakeCustomerStore) Create(_ context.Context, c *models.Customer) error {
	for _, existing := range f.customers {
		if existing.Phone == c.Phone {
			return apperrors.Conflict("customer with this phone number already exists")
		}
	}
	c.ID = f.nextID
	f.nextID++
	c.IsActive = true
	stored := *c
	f.customers[c.ID] = &stored
	return nil
}

func (f *fakeCustomerStore) Get(_ context.Context, id int) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, apperrors.NotFound("customer", id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerStore) List(_ context.Context, _ string) ([]*models.Customer, error) {
	out := make([]*models.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerStore) Update(_ context.Context, c *models.Customer) error {
	existing, ok := f.customers[c.ID]
	if !ok {
		return apperrors.NotFound("customer", c.ID)
	}
	for id, other := range f.customers {
		if id != c.ID && other.Phone == c.Phone {
			return apperrors.Conflict("customer with this phone number already exists")
		}
	}
	existing.Name = c.Name
	existing.Phone = c.Phone
	existing.Email = c.Email
	existing.Address = c.Address
	return nil
}

func (f *fakeCustomerStore) Delete(_ context.Context, id int) error {
	if _, ok := f.customers[id]; !ok {
		return apperrors.NotFound("customer", id)
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerStore) Stats(_ context.Context) (*models.CustomerStats, error) {
	return &models.CustomerStats{Total: len(f.customers)}, nil
}

type fakeRentalCounter struct{ active int }

func (f fakeRentalCounter) CountActiveByCustomer(_ context.Context, _ int) (int, error) {
	return f.active, nil
}

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("valid phone formats are accepted", func(t *testing.T) {
		svc := NewCustomerService(newFakeCustomerStore(), fakeRentalCounter{})

		for _, phone := range []string{"+998901234567", "901234567", "90 123-45-67"} {
			_, err := svc.CreateCustomer(ctx, &models.CreateCustomerRequest{
				Name:  "Test Customer",
				Phone: phone,
			})
			assert.NoError(t, err, "phone %q", phone)
		}
	})

	t.Run("bad phone formats are rejected", func(t *testing.T) {
		svc := NewCustomerService(newFakeCustomerStore(), fakeRentalCounter{})

		for _, phone := range []string{"", "12345", "not-a-phone!", "12345678901234567890"} {
			_, err := svc.CreateCustomer(ctx, &models.CreateCustomerRequest{
				Name:  "Test Customer",
				Phone: phone,
			})
			assert.ErrorIs(t, err, apperrors.ErrValidation, "phone %q", phone)
		}
	})

	t.Run("duplicate phone is a conflict", func(t *testing.T) {
		svc := NewCustomerService(newFakeCustomerStore(), fakeRentalCounter{})

		_, err := svc.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "A", Phone: "+998901234567"})
		require.NoError(t, err)

		_, err = svc.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "B", Phone: "+998901234567"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestDeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while active rentals exist", func(t *testing.T) {
		store := newFakeCustomerStore()
		svc := NewCustomerService(store, fakeRentalCounter{active: 2})

		customer, err := svc.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "A", Phone: "+998901234567"})
		require.NoError(t, err)

		err = svc.DeleteCustomer(ctx, customer.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		assert.Len(t, store.customers, 1)
	})

	t.Run("allowed once all rentals are closed", func(t *testing.T) {
		store := newFakeCustomerStore()
		svc := NewCustomerService(store, fakeRentalCounter{active: 0})

		customer, err := svc.CreateCustomer(ctx, &models.CreateCustomerRequest{Name: "A", Phone: "+998901234567"})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCustomer(ctx, customer.ID))
		assert.Empty(t, store.customers)
	})
}
