package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/services"
	"rentacloud-backend/pkg/utils"
)

type RentalHandler struct {
	Service *services.RentalService
}

func NewRentalHandler(s *services.RentalService) *RentalHandler {
	return &RentalHandler{Service: s}
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	rental, err := h.Service.CreateRental(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	rental, err := h.Service.GetRental(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.RentalFilter{
		Status:     q.Get("status"),
		CustomerID: queryInt(q.Get("customer")),
		ProductID:  queryInt(q.Get("product")),
		Page:       queryInt(q.Get("page")),
		Limit:      queryInt(q.Get("limit")),
	}

	list, err := h.Service.ListRentals(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, list)
}

func (h *RentalHandler) ReturnRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	// Body is optional; an empty body means return now.
	var req models.ReturnRentalRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	rental, err := h.Service.ReturnRental(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.UpdateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	rental, err := h.Service.UpdateRental(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.Service.CancelRental(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "rental cancelled"})
}

func (h *RentalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

func queryInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
