package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/repositories"
	"rentacloud-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService builds daily and monthly activity summaries and
// printable rental receipts.
type ReportService struct {
	RentalRepo *repositories.RentalRepository
}

func NewReportService(rentalRepo *repositories.RentalRepository) *ReportService {
	return &ReportService{RentalRepo: rentalRepo}
}

// DailyReport summarizes one business day: rentals opened, rentals closed
// and the revenue realized from returns on that day.
func (s *ReportService) DailyReport(ctx context.Context, date time.Time) (*models.DailyReport, error) {
	start := timeutil.StartOfDay(date)
	end := timeutil.EndOfDay(date)

	created, err := s.RentalRepo.CreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	returned, err := s.RentalRepo.ReturnedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var revenue float64
	for _, r := range returned {
		if r.FinalAmount != nil {
			revenue += *r.FinalAmount
		}
	}

	return &models.DailyReport{
		Date:            start.Format(timeutil.DateLayout),
		NewRentals:      len(created),
		ReturnedRentals: len(returned),
		DailyRevenue:    revenue,
		NewRentalsList:  created,
		ReturnedList:    returned,
	}, nil
}

// MonthlyReport summarizes one calendar month, including the product
// breakdown sorted by revenue.
func (s *ReportService) MonthlyReport(ctx context.Context, year int, month time.Month) (*models.MonthlyReport, error) {
	start, end := timeutil.MonthRange(year, month)

	created, err := s.RentalRepo.CreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	returned, err := s.RentalRepo.ReturnedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.RentalRepo.TopProductsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var revenue float64
	for _, r := range returned {
		if r.FinalAmount != nil {
			revenue += *r.FinalAmount
		}
	}

	return &models.MonthlyReport{
		Year:            year,
		Month:           int(month),
		NewRentals:      len(created),
		ReturnedRentals: len(returned),
		ActualRevenue:   revenue,
		TopProducts:     topProducts,
	}, nil
}

// ReceiptPDF renders a printable receipt for a rental.
func (s *ReportService) ReceiptPDF(ctx context.Context, rentalID int) ([]byte, error) {
	rental, err := s.RentalRepo.Get(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "RentaCloud - Rental Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Rental Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Rental #%d (%s)", rental.ID, rental.Status), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	productName := ""
	if rental.Product != nil {
		productName = rental.Product.Name
	}
	customerName, customerPhone := "", ""
	if rental.Customer != nil {
		customerName = rental.Customer.Name
		customerPhone = rental.Customer.Phone
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", customerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customerPhone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Product: %s", productName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Quantity: %d", rental.Quantity), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Billing details
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Billing", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(47, 7, "Start Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(47, 7, "End Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(48, 7, "Daily Rate", "1", 0, "C", true, 0, "")
	pdf.CellFormat(48, 7, "Projected", "1", 1, "C", true, 0, "")

	endDate := "open-ended"
	if rental.EndDate != nil {
		endDate = rental.EndDate.Format(timeutil.DateLayout)
	}
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(47, 6, rental.StartDate.Format(timeutil.DateLayout), "1", 0, "C", false, 0, "")
	pdf.CellFormat(47, 6, endDate, "1", 0, "C", false, 0, "")
	pdf.CellFormat(48, 6, fmt.Sprintf("%.2f", rental.DailyRate), "1", 0, "C", false, 0, "")
	pdf.CellFormat(48, 6, fmt.Sprintf("%.2f", rental.TotalAmount), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Final amount for returned rentals
	if rental.Status == models.RentalStatusReturned && rental.FinalAmount != nil {
		pdf.SetFillColor(200, 255, 200)
		pdf.SetFont("Arial", "B", 14)
		days := 0
		if rental.ActualDays != nil {
			days = *rental.ActualDays
		}
		pdf.CellFormat(190, 10,
			fmt.Sprintf("Final: %.2f (%d days billed)", *rental.FinalAmount, days),
			"1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
