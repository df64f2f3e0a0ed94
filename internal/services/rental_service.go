package services

import (
	"context"
	"log"
	"time"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/cache"
	"rentacloud-backend/internal/metrics"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/pricing"
	"rentacloud-backend/internal/repositories"
	"rentacloud-backend/internal/timeutil"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// RentalStore is the persistence surface the rental ledger needs. Each
// mutating call applies its full effect (rental row, product stock,
// customer aggregates) atomically.
type RentalStore interface {
	Create(ctx context.Context, rental *models.Rental) error
	Get(ctx context.Context, id int) (*models.Rental, error)
	List(ctx context.Context, filter models.RentalFilter) ([]*models.Rental, int, error)
	Return(ctx context.Context, u repositories.ReturnUpdate) error
	Edit(ctx context.Context, u repositories.EditUpdate) error
	Cancel(ctx context.Context, id int) error
	Stats(ctx context.Context) (*models.RentalStats, error)
}

// ProductReader and CustomerReader are the read-only lookups the ledger
// needs for validation and the price snapshot.
type ProductReader interface {
	Get(ctx context.Context, id int) (*models.Product, error)
}

type CustomerReader interface {
	Get(ctx context.Context, id int) (*models.Customer, error)
}

// RentalService implements the rental ledger: lifecycle transitions plus
// the billing arithmetic that keeps product stock and customer aggregates
// consistent with the rental rows.
type RentalService struct {
	Rentals   RentalStore
	Products  ProductReader
	Customers CustomerReader
}

func NewRentalService(rentals RentalStore, products ProductReader, customers CustomerReader) *RentalService {
	return &RentalService{
		Rentals:   rentals,
		Products:  products,
		Customers: customers,
	}
}

// CreateRental opens a rental: snapshots the product's daily rate, projects
// the charge when an end date is known, takes the stock and bumps the
// customer aggregates.
func (s *RentalService) CreateRental(ctx context.Context, req *models.CreateRentalRequest) (*models.Rental, error) {
	if req.ProductID <= 0 {
		return nil, apperrors.Validation("product_id is required")
	}
	if req.CustomerID <= 0 {
		return nil, apperrors.Validation("customer_id is required")
	}

	// An omitted quantity means one unit; an explicit bad quantity is an error.
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}

	startDate := timeutil.Now()
	if req.StartDate != "" {
		parsed, err := timeutil.ParseDate(req.StartDate)
		if err != nil {
			return nil, apperrors.Validation("invalid start_date")
		}
		startDate = parsed
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := timeutil.ParseDate(req.EndDate)
		if err != nil {
			return nil, apperrors.Validation("invalid end_date")
		}
		endDate = &parsed
	}

	product, err := s.Products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Customers.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	// Early check for a friendly error; the repository re-checks under the
	// transaction so a concurrent creation cannot slip past this.
	if product.AvailableQuantity < quantity {
		return nil, apperrors.InsufficientInventory(product.AvailableQuantity)
	}

	// Open-ended rentals carry no projected charge until return.
	var totalAmount float64
	if endDate != nil {
		totalAmount = pricing.ProjectedAmount(startDate, *endDate, product.Price, quantity)
	}

	rental := &models.Rental{
		ProductID:   req.ProductID,
		CustomerID:  req.CustomerID,
		Quantity:    quantity,
		StartDate:   startDate,
		EndDate:     endDate,
		DailyRate:   product.Price,
		TotalAmount: totalAmount,
		Notes:       req.Notes,
	}

	if err := s.Rentals.Create(ctx, rental); err != nil {
		return nil, err
	}

	metrics.RentalsCreatedTotal.Inc()
	cache.InvalidateLedger(ctx)
	log.Printf("[Ledger] rental %d created: product=%d qty=%d amount=%.2f",
		rental.ID, rental.ProductID, rental.Quantity, rental.TotalAmount)

	return s.Rentals.Get(ctx, rental.ID)
}

// ReturnRental closes an active rental: bills the actual days (minimum one,
// so a same-day return is never free), restores the stock and reconciles the
// customer's spend by final minus projected.
func (s *RentalService) ReturnRental(ctx context.Context, id int, req *models.ReturnRentalRequest) (*models.Rental, error) {
	rental, err := s.Rentals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rental.Status != models.RentalStatusActive {
		return nil, apperrors.InvalidState("rental is not active")
	}

	returnDate := timeutil.Now()
	if req != nil && req.ReturnDate != "" {
		parsed, err := timeutil.ParseDate(req.ReturnDate)
		if err != nil {
			return nil, apperrors.Validation("invalid return_date")
		}
		returnDate = parsed
	}

	actualDays, finalAmount := pricing.FinalAmount(rental.StartDate, returnDate, rental.DailyRate, rental.Quantity)

	err = s.Rentals.Return(ctx, repositories.ReturnUpdate{
		RentalID:     id,
		ProductID:    rental.ProductID,
		CustomerID:   rental.CustomerID,
		Quantity:     rental.Quantity,
		ReturnedDate: returnDate,
		ActualDays:   actualDays,
		FinalAmount:  finalAmount,
		AmountDelta:  finalAmount - rental.TotalAmount,
	})
	if err != nil {
		return nil, err
	}

	metrics.RentalsReturnedTotal.Inc()
	cache.InvalidateLedger(ctx)
	log.Printf("[Ledger] rental %d returned: days=%d final=%.2f", id, actualDays, finalAmount)

	return s.Rentals.Get(ctx, id)
}

// UpdateRental rewrites an active rental's terms. The quantity delta moves
// stock, and the recomputed projection adjusts the customer's spend; editing
// with unchanged fields is a no-op on both.
func (s *RentalService) UpdateRental(ctx context.Context, id int, req *models.UpdateRentalRequest) (*models.Rental, error) {
	rental, err := s.Rentals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rental.Status != models.RentalStatusActive {
		return nil, apperrors.InvalidState("can only update active rentals")
	}

	quantity := rental.Quantity
	if req.Quantity != 0 {
		if req.Quantity < 1 {
			return nil, apperrors.Validation("quantity must be at least 1")
		}
		quantity = req.Quantity
	}

	startDate := rental.StartDate
	if req.StartDate != "" {
		parsed, err := timeutil.ParseDate(req.StartDate)
		if err != nil {
			return nil, apperrors.Validation("invalid start_date")
		}
		startDate = parsed
	}

	endDate := rental.EndDate
	if req.EndDate != "" {
		parsed, err := timeutil.ParseDate(req.EndDate)
		if err != nil {
			return nil, apperrors.Validation("invalid end_date")
		}
		endDate = &parsed
	}

	notes := rental.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	quantityDelta := quantity - rental.Quantity
	if quantityDelta > 0 && rental.Product != nil && rental.Product.AvailableQuantity < quantityDelta {
		return nil, apperrors.InsufficientInventory(rental.Product.AvailableQuantity)
	}

	var newTotal float64
	if endDate != nil {
		newTotal = pricing.ProjectedAmount(startDate, *endDate, rental.DailyRate, quantity)
	}

	err = s.Rentals.Edit(ctx, repositories.EditUpdate{
		RentalID:       id,
		ProductID:      rental.ProductID,
		CustomerID:     rental.CustomerID,
		NewQuantity:    quantity,
		QuantityDelta:  quantityDelta,
		StartDate:      startDate,
		EndDate:        endDate,
		NewTotalAmount: newTotal,
		AmountDelta:    newTotal - rental.TotalAmount,
		Notes:          notes,
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateLedger(ctx)
	return s.Rentals.Get(ctx, id)
}

// CancelRental deletes a rental. Cancelling while active reverses its stock
// and aggregate effects; cancelling a returned rental removes only the
// record and keeps historical revenue.
func (s *RentalService) CancelRental(ctx context.Context, id int) error {
	if err := s.Rentals.Cancel(ctx, id); err != nil {
		return err
	}
	cache.InvalidateLedger(ctx)
	log.Printf("[Ledger] rental %d cancelled", id)
	return nil
}

func (s *RentalService) GetRental(ctx context.Context, id int) (*models.Rental, error) {
	return s.Rentals.Get(ctx, id)
}

func (s *RentalService) ListRentals(ctx context.Context, filter models.RentalFilter) (*models.RentalList, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	rentals, total, err := s.Rentals.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &models.RentalList{
		Rentals:     rentals,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: filter.Page,
	}, nil
}

func (s *RentalService) Stats(ctx context.Context) (*models.RentalStats, error) {
	var cached models.RentalStats
	if cache.GetJSON(ctx, cache.RentalStatsKey, &cached) {
		return &cached, nil
	}

	stats, err := s.Rentals.Stats(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetStats(ctx, cache.RentalStatsKey, stats)
	return stats, nil
}
