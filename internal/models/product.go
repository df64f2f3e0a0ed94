package models

import "time"

type Product struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"` // daily rate
	TotalQuantity     int       `json:"total_quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	RentedQuantity    int       `json:"rented_quantity"` // derived: total - available
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	TotalQuantity int     `json:"total_quantity"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	TotalQuantity int     `json:"total_quantity"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
}

// ProductStats summarizes the product catalog for the dashboard
type ProductStats struct {
	Total      int `json:"total"`
	Available  int `json:"available"`
	Rented     int `json:"rented"`
	OutOfStock int `json:"out_of_stock"`
}
