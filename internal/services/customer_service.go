package services

import (
	"context"
	"regexp"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/cache"
	"rentacloud-backend/internal/models"
)

// 7-15 digits with optional separators and a leading +
var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-\(\)]{7,15}$`)

// CustomerStore is the persistence surface the customer service needs.
type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	Get(ctx context.Context, id int) (*models.Customer, error)
	List(ctx context.Context, search string) ([]*models.Customer, error)
	Update(ctx context.Context, c *models.Customer) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (*models.CustomerStats, error)
}

// ActiveRentalCounter reports how many active rentals a customer holds;
// deletion is blocked while any exist.
type ActiveRentalCounter interface {
	CountActiveByCustomer(ctx context.Context, customerID int) (int, error)
}

type CustomerService struct {
	Repo    CustomerStore
	Rentals ActiveRentalCounter
}

func NewCustomerService(repo CustomerStore, rentals ActiveRentalCounter) *CustomerService {
	return &CustomerService{Repo: repo, Rentals: rentals}
}

func validateCustomerInput(name, phone string) error {
	if name == "" {
		return apperrors.Validation("name is required")
	}
	if phone == "" {
		return apperrors.Validation("phone is required")
	}
	if !phonePattern.MatchString(phone) {
		return apperrors.Validation("invalid phone number format")
	}
	return nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	if err := validateCustomerInput(req.Name, req.Phone); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}

	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	cache.InvalidateLedger(ctx)
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context, search string) ([]*models.Customer, error) {
	return s.Repo.List(ctx, search)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	if err := validateCustomerInput(req.Name, req.Phone); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}

	if err := s.Repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	cache.InvalidateLedger(ctx)
	return s.Repo.Get(ctx, id)
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	active, err := s.Rentals.CountActiveByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperrors.InvalidState("cannot delete customer with active rentals")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateLedger(ctx)
	return nil
}

func (s *CustomerService) Stats(ctx context.Context) (*models.CustomerStats, error) {
	var cached models.CustomerStats
	if cache.GetJSON(ctx, cache.CustomerStatsKey, &cached) {
		return &cached, nil
	}

	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetStats(ctx, cache.CustomerStatsKey, stats)
	return stats, nil
}
