package models

// DailyReport summarizes one business day
type DailyReport struct {
	Date            string    `json:"date"`
	NewRentals      int       `json:"new_rentals"`
	ReturnedRentals int       `json:"returned_rentals"`
	DailyRevenue    float64   `json:"daily_revenue"`
	NewRentalsList  []*Rental `json:"new_rentals_list"`
	ReturnedList    []*Rental `json:"returned_rentals_list"`
}

// MonthlyProductRow is one product's rental volume within a month
type MonthlyProductRow struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Count       int     `json:"count"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// MonthlyReport summarizes one calendar month
type MonthlyReport struct {
	Year            int                  `json:"year"`
	Month           int                  `json:"month"`
	NewRentals      int                  `json:"new_rentals"`
	ReturnedRentals int                  `json:"returned_rentals"`
	ActualRevenue   float64              `json:"actual_revenue"`
	TopProducts     []*MonthlyProductRow `json:"top_products"`
}
