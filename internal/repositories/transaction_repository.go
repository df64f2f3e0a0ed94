package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.OnlineTransaction) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO online_transactions(rental_id, order_id, amount, status)
         VALUES($1, $2, $3, $4)
         RETURNING id, created_at, updated_at`,
		t.RentalID, t.OrderID, t.Amount, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *TransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	var t models.OnlineTransaction
	err := r.DB.QueryRow(ctx,
		`SELECT id, rental_id, order_id, payment_id, amount, status, created_at, updated_at
         FROM online_transactions WHERE order_id=$1`, orderID,
	).Scan(&t.ID, &t.RentalID, &t.OrderID, &t.PaymentID, &t.Amount, &t.Status,
		&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &t, nil
}

// MarkStatus records the gateway's verdict for an order.
func (r *TransactionRepository) MarkStatus(ctx context.Context, orderID, paymentID, status string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE online_transactions
         SET payment_id=$2, status=$3, updated_at=CURRENT_TIMESTAMP
         WHERE order_id=$1`, orderID, paymentID, status)
	if err != nil {
		return apperrors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) ListByRental(ctx context.Context, rentalID int) ([]*models.OnlineTransaction, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, rental_id, order_id, payment_id, amount, status, created_at, updated_at
         FROM online_transactions WHERE rental_id=$1 ORDER BY created_at DESC`, rentalID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var list []*models.OnlineTransaction
	for rows.Next() {
		var t models.OnlineTransaction
		if err := rows.Scan(&t.ID, &t.RentalID, &t.OrderID, &t.PaymentID, &t.Amount,
			&t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperrors.Storage(err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
