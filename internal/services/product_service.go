package services

import (
	"context"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/cache"
	"rentacloud-backend/internal/models"
)

// ProductStore is the persistence surface the product service needs.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, id int) (*models.Product, error)
	List(ctx context.Context, search, status string) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (*models.ProductStats, error)
}

type ProductService struct {
	Repo ProductStore
}

func NewProductService(repo ProductStore) *ProductService {
	return &ProductService{Repo: repo}
}

func validateProductInput(name string, price float64, totalQuantity int) error {
	if name == "" {
		return apperrors.Validation("name is required")
	}
	if price < 0 {
		return apperrors.Validation("price must not be negative")
	}
	if totalQuantity < 0 {
		return apperrors.Validation("total quantity must not be negative")
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if err := validateProductInput(req.Name, req.Price, req.TotalQuantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          req.Name,
		Price:         req.Price,
		TotalQuantity: req.TotalQuantity,
		Description:   req.Description,
		Category:      req.Category,
	}

	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, err
	}

	cache.InvalidateLedger(ctx)
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, search, status string) ([]*models.Product, error) {
	// Only the unfiltered listing is cached; filtered views go to the database.
	if search == "" && status == "" {
		var cached []*models.Product
		if cache.GetJSON(ctx, cache.ProductListKey, &cached) {
			return cached, nil
		}
	}

	products, err := s.Repo.List(ctx, search, status)
	if err != nil {
		return nil, err
	}

	if search == "" && status == "" {
		cache.SetList(ctx, cache.ProductListKey, products)
	}
	return products, nil
}

// UpdateProduct edits catalog fields. A total-quantity change shifts
// available stock by the same delta (floored at zero in the repository),
// so units already out stay accounted for.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, req *models.UpdateProductRequest) (*models.Product, error) {
	if err := validateProductInput(req.Name, req.Price, req.TotalQuantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:            id,
		Name:          req.Name,
		Price:         req.Price,
		TotalQuantity: req.TotalQuantity,
		Description:   req.Description,
		Category:      req.Category,
	}

	if err := s.Repo.Update(ctx, product); err != nil {
		return nil, err
	}

	cache.InvalidateLedger(ctx)
	return s.Repo.Get(ctx, id)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateLedger(ctx)
	return nil
}

func (s *ProductService) Stats(ctx context.Context) (*models.ProductStats, error) {
	var cached models.ProductStats
	if cache.GetJSON(ctx, cache.ProductStatsKey, &cached) {
		return &cached, nil
	}

	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetStats(ctx, cache.ProductStatsKey, stats)
	return stats, nil
}
