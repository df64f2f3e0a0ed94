package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
)

// BackupRepository performs the raw row-level work of snapshot restore:
// explicit-id inserts, existence checks and sequence resynchronization.
// Restore is intentionally per-row and non-transactional so one bad row
// does not discard a whole snapshot; the caller reports per-row counters.
type BackupRepository struct {
	DB *pgxpool.Pool
}

func NewBackupRepository(db *pgxpool.Pool) *BackupRepository {
	return &BackupRepository{DB: db}
}

// ClearAll wipes the ledger tables in dependency order.
func (r *BackupRepository) ClearAll(ctx context.Context) error {
	for _, table := range []string{"online_transactions", "rentals", "products", "customers"} {
		if _, err := r.DB.Exec(ctx, "DELETE FROM "+table); err != nil {
			return apperrors.Storage(err)
		}
	}
	return nil
}

func (r *BackupRepository) exists(ctx context.Context, table string, id int) (bool, error) {
	var found bool
	err := r.DB.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id=$1)", id).Scan(&found)
	if err != nil {
		return false, apperrors.Storage(err)
	}
	return found, nil
}

func (r *BackupRepository) ProductExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, "products", id)
}

func (r *BackupRepository) CustomerExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, "customers", id)
}

func (r *BackupRepository) RentalExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, "rentals", id)
}

func (r *BackupRepository) InsertProduct(ctx context.Context, p *models.Product) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO products(id, name, price, total_quantity, available_quantity,
                              description, category, is_active, created_at, updated_at)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Price, p.TotalQuantity, p.AvailableQuantity,
		p.Description, p.Category, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *BackupRepository) InsertCustomer(ctx context.Context, c *models.Customer) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO customers(id, name, phone, email, address, is_active,
                               total_rentals, total_spent, created_at, updated_at)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.IsActive,
		c.TotalRentals, c.TotalSpent, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *BackupRepository) InsertRental(ctx context.Context, rental *models.Rental) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO rentals(id, product_id, customer_id, quantity, start_date, end_date,
                             daily_rate, total_amount, status, returned_date, actual_days,
                             final_amount, notes, created_at, updated_at)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rental.ID, rental.ProductID, rental.CustomerID, rental.Quantity,
		rental.StartDate, rental.EndDate, rental.DailyRate, rental.TotalAmount,
		rental.Status, rental.ReturnedDate, rental.ActualDays, rental.FinalAmount,
		rental.Notes, rental.CreatedAt, rental.UpdatedAt)
	if err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// ResyncSequences realigns the id sequences after explicit-id inserts.
func (r *BackupRepository) ResyncSequences(ctx context.Context) error {
	for _, table := range []string{"products", "customers", "rentals"} {
		query := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), COALESCE((SELECT MAX(id) FROM " + table + "), 1))"
		if _, err := r.DB.Exec(ctx, query); err != nil {
			return apperrors.Storage(err)
		}
	}
	return nil
}
