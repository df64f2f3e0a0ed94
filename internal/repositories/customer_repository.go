package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
)

// Postgres unique_violation
const uniqueViolation = "23505"

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, name, phone, email, address, is_active,
       total_rentals, total_spent, created_at, updated_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive,
		&c.TotalRentals, &c.TotalSpent, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Storage(err)
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO customers(name, phone, email, address)
         VALUES($1, $2, $3, $4)
         RETURNING id, is_active, total_rentals, total_spent, created_at, updated_at`,
		c.Name, c.Phone, c.Email, c.Address,
	).Scan(&c.ID, &c.IsActive, &c.TotalRentals, &c.TotalSpent, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("customer with this phone number already exists")
		}
		return apperrors.Storage(err)
	}
	return nil
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("customer", id)
		}
		return nil, err
	}
	return c, nil
}

// List returns customers matching an optional name/phone search.
func (r *CustomerRepository) List(ctx context.Context, search string) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []interface{}{}

	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` WHERE name ILIKE $1 OR phone ILIKE $1`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE customers SET name=$1, phone=$2, email=$3, address=$4, updated_at=CURRENT_TIMESTAMP
         WHERE id=$5`,
		c.Name, c.Phone, c.Email, c.Address, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("customer with this phone number already exists")
		}
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("customer", c.ID)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("customer", id)
	}
	return nil
}

func (r *CustomerRepository) Stats(ctx context.Context) (*models.CustomerStats, error) {
	var s models.CustomerStats
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*),
                COUNT(*) FILTER (WHERE is_active),
                COALESCE(SUM(total_spent), 0)
         FROM customers`,
	).Scan(&s.Total, &s.Active, &s.TotalRevenue)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &s, nil
}
