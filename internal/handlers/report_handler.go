package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/services"
	"rentacloud-backend/internal/timeutil"
	"rentacloud-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// Daily serves GET /api/reports/daily?date=yyyy-mm-dd (defaults to today).
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	date := timeutil.Now()
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := timeutil.ParseDate(s)
		if err != nil {
			utils.Error(w, apperrors.Validation("invalid date"))
			return
		}
		date = parsed
	}

	report, err := h.Service.DailyReport(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

// Monthly serves GET /api/reports/monthly?year=2026&month=8 (defaults to the
// current month).
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	now := timeutil.Now()
	year, month := now.Year(), now.Month()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2200 {
			utils.Error(w, apperrors.Validation("invalid year"))
			return
		}
		year = y
	}
	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			utils.Error(w, apperrors.Validation("invalid month"))
			return
		}
		month = time.Month(m)
	}

	report, err := h.Service.MonthlyReport(r.Context(), year, month)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

// Receipt serves GET /api/rentals/{id}/receipt as a PDF download.
func (h *ReportHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	pdf, err := h.Service.ReceiptPDF(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=rental-%d-receipt.pdf", id))
	w.Write(pdf)
}
