package models

import "time"

// Online payment transaction states
const (
	TransactionStatusCreated = "created"
	TransactionStatusPaid    = "paid"
	TransactionStatusFailed  = "failed"
)

// OnlineTransaction records a payment-gateway order raised against a rental.
type OnlineTransaction struct {
	ID        int       `json:"id"`
	RentalID  int       `json:"rental_id"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePaymentOrderRequest represents the request body for raising a payment order
type CreatePaymentOrderRequest struct {
	RentalID int `json:"rental_id"`
}

// PaymentOrderResponse is returned to the client to launch gateway checkout
type PaymentOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}
