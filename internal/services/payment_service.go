package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/config"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/repositories"
	"rentacloud-backend/internal/timeutil"

	razorpay "github.com/razorpay/razorpay-go"
)

// PaymentService raises Razorpay orders against rentals and settles them
// from gateway webhooks.
type PaymentService struct {
	cfg             *config.Config
	transactionRepo *repositories.TransactionRepository
	rentalRepo      *repositories.RentalRepository
}

func NewPaymentService(cfg *config.Config, transactionRepo *repositories.TransactionRepository, rentalRepo *repositories.RentalRepository) *PaymentService {
	return &PaymentService{
		cfg:             cfg,
		transactionRepo: transactionRepo,
		rentalRepo:      rentalRepo,
	}
}

func (s *PaymentService) client() *razorpay.Client {
	if s.cfg.Razorpay.KeyID == "" || s.cfg.Razorpay.KeySecret == "" {
		return nil
	}
	return razorpay.NewClient(s.cfg.Razorpay.KeyID, s.cfg.Razorpay.KeySecret)
}

// CreateOrder raises a gateway order for a rental's current charge. For a
// returned rental the final amount is billed, otherwise the projection.
func (s *PaymentService) CreateOrder(ctx context.Context, req *models.CreatePaymentOrderRequest) (*models.PaymentOrderResponse, error) {
	client := s.client()
	if client == nil {
		return nil, apperrors.InvalidState("online payments are not configured")
	}

	rental, err := s.rentalRepo.Get(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}

	amount := rental.TotalAmount
	if rental.FinalAmount != nil {
		amount = *rental.FinalAmount
	}
	if amount <= 0 {
		return nil, apperrors.InvalidState("rental has no billable amount yet")
	}

	// Razorpay amounts are in the smallest currency unit.
	orderData := map[string]interface{}{
		"amount":   int(amount * 100),
		"currency": "INR",
		"receipt":  fmt.Sprintf("rental_%d_%d", rental.ID, timeutil.Now().Unix()),
		"notes": map[string]interface{}{
			"rental_id": rental.ID,
		},
	}

	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	tx := &models.OnlineTransaction{
		RentalID: rental.ID,
		OrderID:  orderID,
		Amount:   amount,
		Status:   models.TransactionStatusCreated,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	log.Printf("[Payment] order %s created for rental %d (%.2f)", orderID, rental.ID, amount)
	return &models.PaymentOrderResponse{
		OrderID:  orderID,
		Amount:   amount,
		Currency: "INR",
		KeyID:    s.cfg.Razorpay.KeyID,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature Razorpay sends
// with each webhook delivery.
func (s *PaymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	secret := s.cfg.Razorpay.WebhookSecret
	if secret == "" {
		return true // verification off when no secret is configured
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook settles a transaction from a gateway event.
func (s *PaymentService) ProcessWebhook(ctx context.Context, event string, payload map[string]interface{}) error {
	orderID, paymentID := extractPaymentRefs(payload)
	if orderID == "" {
		return apperrors.Validation("webhook payload missing order_id")
	}

	switch event {
	case "payment.captured":
		tx, err := s.transactionRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if tx.Status == models.TransactionStatusPaid {
			log.Printf("[Payment] order %s already settled", orderID)
			return nil
		}
		if err := s.transactionRepo.MarkStatus(ctx, orderID, paymentID, models.TransactionStatusPaid); err != nil {
			return err
		}
		log.Printf("[Payment] order %s captured (payment %s)", orderID, paymentID)
		return nil
	case "payment.failed":
		if err := s.transactionRepo.MarkStatus(ctx, orderID, paymentID, models.TransactionStatusFailed); err != nil {
			return err
		}
		log.Printf("[Payment] order %s failed", orderID)
		return nil
	default:
		log.Printf("[Payment] unhandled webhook event: %s", event)
		return nil
	}
}

// ListByRental returns the payment history of a rental.
func (s *PaymentService) ListByRental(ctx context.Context, rentalID int) ([]*models.OnlineTransaction, error) {
	return s.transactionRepo.ListByRental(ctx, rentalID)
}

func extractPaymentRefs(payload map[string]interface{}) (orderID, paymentID string) {
	entity := payload
	if p, ok := payload["payment"].(map[string]interface{}); ok {
		entity = p
	}
	if e, ok := entity["entity"].(map[string]interface{}); ok {
		entity = e
	}
	orderID, _ = entity["order_id"].(string)
	paymentID, _ = entity["id"].(string)
	return orderID, paymentID
}
