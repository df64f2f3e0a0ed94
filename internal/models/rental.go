package models

import "time"

// Rental status values. State is always explicit; a rental is never
// considered returned just because returned_date happens to be set.
const (
	RentalStatusActive   = "active"
	RentalStatusReturned = "returned"
	RentalStatusOverdue  = "overdue"
)

type Rental struct {
	ID         int `json:"id"`
	ProductID  int `json:"product_id"`
	CustomerID int `json:"customer_id"`
	Quantity   int `json:"quantity"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"` // nil = open-ended

	// Billing snapshot. DailyRate is the product price at creation time;
	// later product price changes never alter an existing rental.
	DailyRate   float64 `json:"daily_rate"`
	TotalAmount float64 `json:"total_amount"`

	Status       string     `json:"status"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
	ActualDays   *int       `json:"actual_days,omitempty"`
	FinalAmount  *float64   `json:"final_amount,omitempty"`
	Notes        string     `json:"notes"`

	// Populated references for API responses
	Product  *Product  `json:"product,omitempty"`
	Customer *Customer `json:"customer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRentalRequest represents the request body for creating a rental
type CreateRentalRequest struct {
	ProductID  int    `json:"product_id"`
	CustomerID int    `json:"customer_id"`
	Quantity   int    `json:"quantity"`
	StartDate  string `json:"start_date"` // yyyy-mm-dd or RFC3339, defaults to now
	EndDate    string `json:"end_date"`   // optional, open-ended if empty
	Notes      string `json:"notes"`
}

// UpdateRentalRequest represents the request body for editing an active rental
type UpdateRentalRequest struct {
	Quantity  int     `json:"quantity"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Notes     *string `json:"notes"`
}

// ReturnRentalRequest represents the request body for returning a rental
type ReturnRentalRequest struct {
	ReturnDate string `json:"return_date"` // optional, defaults to now
}

// RentalFilter narrows rental listings
type RentalFilter struct {
	Status     string
	CustomerID int
	ProductID  int
	Page       int
	Limit      int
}

// RentalList is a paginated rental listing
type RentalList struct {
	Rentals     []*Rental `json:"rentals"`
	Total       int       `json:"total"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
}

// RentalStats summarizes rental activity for the dashboard
type RentalStats struct {
	Active       int     `json:"active"`
	Total        int     `json:"total"`
	Overdue      int     `json:"overdue"`
	Returned     int     `json:"returned"`
	TotalRevenue float64 `json:"total_revenue"`
}
