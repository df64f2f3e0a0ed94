package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, price, total_quantity, available_quantity,
       description, category, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.TotalQuantity, &p.AvailableQuantity,
		&p.Description, &p.Category, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Storage(err)
	}
	p.RentedQuantity = p.TotalQuantity - p.AvailableQuantity
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO products(name, price, total_quantity, available_quantity, description, category)
         VALUES($1, $2, $3, $3, $4, $5)
         RETURNING id, is_active, created_at, updated_at`,
		p.Name, p.Price, p.TotalQuantity, p.Description, p.Category,
	).Scan(&p.ID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return apperrors.Storage(err)
	}
	p.AvailableQuantity = p.TotalQuantity
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, err
	}
	return p, nil
}

// List returns products matching an optional name search and availability
// filter ("available" = units in stock, "rented" = some units out).
func (r *ProductRepository) List(ctx context.Context, search, status string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}

	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` AND name ILIKE $1`
	}
	switch status {
	case "available":
		query += ` AND available_quantity > 0`
	case "rented":
		query += ` AND available_quantity < total_quantity`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update persists edited product fields. A total_quantity change moves
// available_quantity by the same delta, floored at zero, in one statement so
// both columns come from the same old row.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE products
         SET name=$1, price=$2,
             available_quantity = GREATEST(0, available_quantity + ($3 - total_quantity)),
             total_quantity=$3,
             description=$4, category=$5, updated_at=CURRENT_TIMESTAMP
         WHERE id=$6`,
		p.Name, p.Price, p.TotalQuantity, p.Description, p.Category, p.ID)
	if err != nil {
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}
	return nil
}

// Delete removes a product only when no units are checked out.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM products WHERE id=$1 AND available_quantity = total_quantity`, id)
	if err != nil {
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing product from one with units out
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return getErr
		}
		return apperrors.InvalidState("cannot delete product with active rentals")
	}
	return nil
}

func (r *ProductRepository) Stats(ctx context.Context) (*models.ProductStats, error) {
	var s models.ProductStats
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*),
                COUNT(*) FILTER (WHERE available_quantity > 0),
                COUNT(*) FILTER (WHERE available_quantity < total_quantity),
                COUNT(*) FILTER (WHERE available_quantity = 0)
         FROM products`,
	).Scan(&s.Total, &s.Available, &s.Rented, &s.OutOfStock)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &s, nil
}
