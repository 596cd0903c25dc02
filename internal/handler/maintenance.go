package handler

import (
	"log/slog"
	"net/http"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

// MaintenanceHandler serves maintenance requests raised by tenants
type MaintenanceHandler struct {
	requests *service.MaintenanceService
	logger   *slog.Logger
}

func NewMaintenanceHandler(requests *service.MaintenanceService, logger *slog.Logger) *MaintenanceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MaintenanceHandler{requests: requests, logger: logger}
}

// List handles GET /api/maintenance?propertyId=&status=
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.requests.List(r.Context(), middleware.GetSessionFromContext(r.Context()), service.MaintenanceQuery{
		PropertyID: q.Get("propertyId"),
		Status:     domain.MaintenanceStatus(q.Get("status")),
	})
	writeResult(w, h.logger, r, http.StatusOK, items, err)
}

// Create handles POST /api/maintenance
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateMaintenanceInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	m, err := h.requests.Create(r.Context(), middleware.GetSessionFromContext(r.Context()), req)
	writeResult(w, h.logger, r, http.StatusCreated, m, err)
}

// Get handles GET /api/maintenance/{id}
func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.requests.Get(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"))
	writeResult(w, h.logger, r, http.StatusOK, m, err)
}

// Update handles PATCH /api/maintenance/{id}
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.MaintenancePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	m, err := h.requests.Update(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), patch)
	writeResult(w, h.logger, r, http.StatusOK, m, err)
}

// Delete handles DELETE /api/maintenance/{id}
func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.requests.Delete(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeMessage(w, "Request deleted successfully")
}
