package handlers

import (
	"encoding/json"
	"net/http"

	"rentacloud-backend/internal/apperrors"
	"rentacloud-backend/internal/models"
	"rentacloud-backend/internal/services"
	"rentacloud-backend/pkg/utils"
)

type BackupHandler struct {
	Service *services.BackupService
}

func NewBackupHandler(s *services.BackupService) *BackupHandler {
	return &BackupHandler{Service: s}
}

// Export serves GET /api/backup/export as a downloadable snapshot.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Service.Export(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=rentacloud-backup.json")
	json.NewEncoder(w).Encode(snapshot)
}

// Import serves POST /api/backup/import.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req models.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, apperrors.Validation("invalid request body"))
		return
	}

	result, err := h.Service.Import(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// Upload serves POST /api/backup/upload: snapshot to object storage.
func (h *BackupHandler) Upload(w http.ResponseWriter, r *http.Request) {
	key, err := h.Service.UploadToRemote(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"key": key})
}

// ListRemote serves GET /api/backup/list.
func (h *BackupHandler) ListRemote(w http.ResponseWriter, r *http.Request) {
	backups, err := h.Service.ListRemote(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, backups)
}
