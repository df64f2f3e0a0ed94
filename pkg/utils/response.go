package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"rentacloud-backend/internal/apperrors"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error maps an error to its HTTP status via the apperrors kind and writes
// a JSON error body. Unrecognized errors become 500s with a generic message
// so internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidState):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
		message = "storage unavailable"
		log.Printf("[HTTP] storage error: %v", err)
	default:
		message = "internal server error"
		log.Printf("[HTTP] unexpected error: %v", err)
	}

	JSON(w, status, map[string]string{"error": message})
}
