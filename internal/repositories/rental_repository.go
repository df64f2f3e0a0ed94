package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
)

// RentalRepository owns the rental table and applies every ledger mutation
// inside a single transaction, so a rental row, its product's stock and its
// customer's aggregates never drift apart.
type RentalRepository struct {
	DB *pgxpool.Pool
}

func NewRentalRepository(db *pgxpool.Pool) *RentalRepository {
	return &RentalRepository{DB: db}
}

// ReturnUpdate carries the precomputed effects of returning a rental.
type ReturnUpdate struct {
	RentalID     int
	ProductID    int
	CustomerID   int
	Quantity     int
	ReturnedDate time.Time
	ActualDays   int
	FinalAmount  float64
	AmountDelta  float64 // final minus projected; applied to customer total_spent
}

// EditUpdate carries the precomputed effects of editing an active rental.
type EditUpdate struct {
	RentalID       int
	ProductID      int
	CustomerID     int
	NewQuantity    int
	QuantityDelta  int // new minus old; positive takes stock, negative restores it
	StartDate      time.Time
	EndDate        *time.Time
	NewTotalAmount float64
	AmountDelta    float64
	Notes          string
}

const rentalSelect = `
	SELECT r.id, r.product_id, r.customer_id, r.quantity,
	       r.start_date, r.end_date, r.daily_rate, r.total_amount,
	       r.status, r.returned_date, r.actual_days, r.final_amount, r.notes,
	       r.created_at, r.updated_at,
	       p.id, p.name, p.price, p.total_quantity, p.available_quantity,
	       p.description, p.category, p.is_active, p.created_at, p.updated_at,
	       c.id, c.name, c.phone, c.email, c.address, c.is_active,
	       c.total_rentals, c.total_spent, c.created_at, c.updated_at
	FROM rentals r
	JOIN products p ON p.id = r.product_id
	JOIN customers c ON c.id = r.customer_id`

func scanRental(row pgx.Row) (*models.Rental, error) {
	var r models.Rental
	var p models.Product
	var c models.Customer
	err := row.Scan(
		&r.ID, &r.ProductID, &r.CustomerID, &r.Quantity,
		&r.StartDate, &r.EndDate, &r.DailyRate, &r.TotalAmount,
		&r.Status, &r.ReturnedDate, &r.ActualDays, &r.FinalAmount, &r.Notes,
		&r.CreatedAt, &r.UpdatedAt,
		&p.ID, &p.Name, &p.Price, &p.TotalQuantity, &p.AvailableQuantity,
		&p.Description, &p.Category, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive,
		&c.TotalRentals, &c.TotalSpent, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Storage(err)
	}
	p.RentedQuantity = p.TotalQuantity - p.AvailableQuantity
	r.Product = &p
	r.Customer = &c
	return &r, nil
}

// Create inserts the rental, takes the stock and bumps the customer
// aggregates in one transaction. The stock decrement is guarded so two
// concurrent creations can never oversell the last units.
func (r *RentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperrors.Storage(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE products
         SET available_quantity = available_quantity - $2, updated_at=CURRENT_TIMESTAMP
         WHERE id=$1 AND available_quantity >= $2`,
		rental.ProductID, rental.Quantity)
	if err != nil {
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		var available int
		err := tx.QueryRow(ctx,
			`SELECT available_quantity FROM products WHERE id=$1`, rental.ProductID,
		).Scan(&available)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product", rental.ProductID)
		}
		if err != nil {
			return apperrors.Storage(err)
		}
		return apperrors.InsufficientInventory(available)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO rentals(product_id, customer_id, quantity, start_date, end_date,
                             daily_rate, total_amount, notes)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, status, created_at, updated_at`,
		rental.ProductID, rental.CustomerID, rental.Quantity, rental.StartDate,
		rental.EndDate, rental.DailyRate, rental.TotalAmount, rental.Notes,
	).Scan(&rental.ID, &rental.Status, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return apperrors.Storage(err)
	}

	tag, err = tx.Exec(ctx,
		`UPDATE customers
         SET total_rentals = total_rentals + 1,
             total_spent = total_spent + $2,
             updated_at=CURRENT_TIMESTAMP
         WHERE id=$1`,
		rental.CustomerID, rental.TotalAmount)
	if err != nil {
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("customer", rental.CustomerID)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *RentalRepository) Get(ctx context.Context, id int) (*models.Rental, error) {
	rental, err := scanRental(r.DB.QueryRow(ctx, rentalSelect+` WHERE r.id=$1`, id))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("rental", id)
		}
		return nil, err
	}
	return rental, nil
}

// List returns a page of rentals plus the unpaginated match count.
func (r *RentalRepository) List(ctx context.Context, filter models.RentalFilter) ([]*models.Rental, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where += ` AND r.status = ` + arg(filter.Status)
	}
	if filter.CustomerID > 0 {
		where += ` AND r.customer_id = ` + arg(filter.CustomerID)
	}
	if filter.ProductID > 0 {
		where += ` AND r.product_id = ` + arg(filter.ProductID)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM rentals r` + where
	if err := r.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Storage(err)
	}

	query := rentalSelect + where + ` ORDER BY r.created_at DESC`
	query += ` LIMIT ` + arg(filter.Limit)
	query += ` OFFSET ` + arg((filter.Page-1)*filter.Limit)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Storage(err)
	}
	defer rows.Close()

	var rentals []*models.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, rental)
	}
	return rentals, total, rows.Err()
}

// Return finalizes an active rental: marks it returned, restores the stock
// and reconciles the customer's spend by the final-vs-projected delta. The
// status guard makes double returns lose the race cleanly.
func (r *RentalRepository) Return(ctx context.Context, u ReturnUpdate) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperrors.Storage(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE rentals
         SET status=$2, returned_date=$3, actual_days=$4, final_amount=$5,
             updated_at=CURRENT_TIMESTAMP
         WHERE id=$1 AND status=$6`,
		u.RentalID, models.RentalStatusReturned, u.ReturnedDate, u.ActualDays,
		u.FinalAmount, models.RentalStatusActive)
	if err != nil {
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return r.activeGuardError(ctx, u.RentalID)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE products
         SET available_quantity = available_quantity + $2, updated_at=CURRENT_TIMESTAMP
         WHERE id=$1`,
		u.ProductID, u.Quantity); err != nil {
		return apperrors.Storage(err)
	}

	if u.AmountDelta != 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE customers
             SET total_spent = total_spent + $2, updated_at=CURRENT_TIMESTAMP
             WHERE id=$1`,
			u.CustomerID, u.AmountDelta); err != nil {
			return apperrors.Storage(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// Edit rewrites an active rental's terms, moves the stock by the quantity
// delta and adjusts the customer's spend by the amount delta.
func (r *RentalRepository) Edit(ctx context.Context, u EditUpdate) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperrors.Storage(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE rentals
         SET quantity=$2, start_date=$3, end_date=$4, total_amount=$5, notes=$6,
             updated_at=CURRENT_TIMESTAMP
         WHERE id=$1 AND status=$7`,
		u.RentalID, u.NewQuantity, u.StartDate, u.EndDate, u.NewTotalAmount,
		u.Notes, models.RentalStatusActive)
	if err != nil {
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return r.activeGuardError(ctx, u.RentalID)
	}

	if u.QuantityDelta > 0 {
		tag, err := tx.Exec(ctx,
			`UPDATE products
             SET available_quantity = available_quantity - $2, updated_at=CURRENT_TIMESTAMP
             WHERE id=$1 AND available_quantity >= $2`,
			u.ProductID, u.QuantityDelta)
		if err != nil {
			return apperrors.Storage(err)
		}
		if tag.RowsAffected() == 0 {
			var available int
			if err := tx.QueryRow(ctx,
				`SELECT available_quantity FROM products WHERE id=$1`, u.ProductID,
			).Scan(&available); err != nil {
				return apperrors.Storage(err)
			}
			return apperrors.InsufficientInventory(available)
		}
	} else if u.QuantityDelta < 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE products
             SET available_quantity = available_quantity - $2, updated_at=CURRENT_TIMESTAMP
             WHERE id=$1`,
			u.ProductID, u.QuantityDelta); err != nil {
			return apperrors.Storage(err)
		}
	}

	if u.AmountDelta != 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE customers
             SET total_spent = total_spent + $2, updated_at=CURRENT_TIMESTAMP
             WHERE id=$1`,
			u.CustomerID, u.AmountDelta); err != nil {
			return apperrors.Storage(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// Cancel deletes a rental. An active rental's stock and customer aggregates
// are reversed; a returned rental is removed as a pure record deletion and
// keeps its historical contribution to the customer's totals.
func (r *RentalRepository) Cancel(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperrors.Storage(err)
	}
	defer tx.Rollback(ctx)

	var productID, customerID, quantity int
	var totalAmount float64
	var status string
	err = tx.QueryRow(ctx,
		`DELETE FROM rentals WHERE id=$1
         RETURNING product_id, customer_id, quantity, total_amount, status`, id,
	).Scan(&productID, &customerID, &quantity, &totalAmount, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("rental", id)
	}
	if err != nil {
		return apperrors.Storage(err)
	}

	if status == models.RentalStatusActive {
		if _, err := tx.Exec(ctx,
			`UPDATE products
             SET available_quantity = available_quantity + $2, updated_at=CURRENT_TIMESTAMP
             WHERE id=$1`,
			productID, quantity); err != nil {
			return apperrors.Storage(err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE customers
             SET total_rentals = total_rentals - 1,
                 total_spent = total_spent - $2,
                 updated_at=CURRENT_TIMESTAMP
             WHERE id=$1`,
			customerID, totalAmount); err != nil {
			return apperrors.Storage(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// activeGuardError figures out why a status-guarded update matched nothing.
func (r *RentalRepository) activeGuardError(ctx context.Context, id int) error {
	var status string
	err := r.DB.QueryRow(ctx, `SELECT status FROM rentals WHERE id=$1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("rental", id)
	}
	if err != nil {
		return apperrors.Storage(err)
	}
	return apperrors.InvalidState("rental is not active")
}

func (r *RentalRepository) CountActiveByCustomer(ctx context.Context, customerID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM rentals WHERE customer_id=$1 AND status=$2`,
		customerID, models.RentalStatusActive).Scan(&count)
	if err != nil {
		return 0, apperrors.Storage(err)
	}
	return count, nil
}

func (r *RentalRepository) Stats(ctx context.Context) (*models.RentalStats, error) {
	var s models.RentalStats
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE status=$1),
                COUNT(*),
                COUNT(*) FILTER (WHERE status=$1 AND end_date IS NOT NULL AND end_date < CURRENT_TIMESTAMP),
                COUNT(*) FILTER (WHERE status=$2),
                COALESCE(SUM(final_amount) FILTER (WHERE status=$2), 0)
         FROM rentals`,
		models.RentalStatusActive, models.RentalStatusReturned,
	).Scan(&s.Active, &s.Total, &s.Overdue, &s.Returned, &s.TotalRevenue)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &s, nil
}

// CreatedBetween returns rentals created inside [start, end].
func (r *RentalRepository) CreatedBetween(ctx context.Context, start, end time.Time) ([]*models.Rental, error) {
	return r.listBetween(ctx, rentalSelect+
		` WHERE r.created_at BETWEEN $1 AND $2 ORDER BY r.created_at DESC`, start, end)
}

// ReturnedBetween returns rentals returned inside [start, end].
func (r *RentalRepository) ReturnedBetween(ctx context.Context, start, end time.Time) ([]*models.Rental, error) {
	return r.listBetween(ctx, rentalSelect+
		` WHERE r.returned_date BETWEEN $1 AND $2 AND r.status='returned' ORDER BY r.returned_date DESC`,
		start, end)
}

// ListAll returns every rental, populated, for snapshot export.
func (r *RentalRepository) ListAll(ctx context.Context) ([]*models.Rental, error) {
	rows, err := r.DB.Query(ctx, rentalSelect+` ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var rentals []*models.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	return rentals, rows.Err()
}

func (r *RentalRepository) listBetween(ctx context.Context, query string, start, end time.Time) ([]*models.Rental, error) {
	rows, err := r.DB.Query(ctx, query, start, end)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var rentals []*models.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	return rentals, rows.Err()
}

// TopProductsBetween aggregates rental volume per product for a period.
func (r *RentalRepository) TopProductsBetween(ctx context.Context, start, end time.Time) ([]*models.MonthlyProductRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT r.product_id, p.name, COUNT(*), SUM(r.quantity), COALESCE(SUM(r.total_amount), 0)
         FROM rentals r
         JOIN products p ON p.id = r.product_id
         WHERE r.created_at BETWEEN $1 AND $2
         GROUP BY r.product_id, p.name
         ORDER BY COUNT(*) DESC`,
		start, end)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var result []*models.MonthlyProductRow
	for rows.Next() {
		var row models.MonthlyProductRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Count, &row.Quantity, &row.Revenue); err != nil {
			return nil, apperrors.Storage(err)
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}
