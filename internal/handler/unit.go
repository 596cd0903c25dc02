package handler

import (
	"log/slog"
	"net/http"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

// UnitHandler serves the rentable units of a property
type UnitHandler struct {
	units  *service.UnitService
	logger *slog.Logger
}

func NewUnitHandler(units *service.UnitService, logger *slog.Logger) *UnitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitHandler{units: units, logger: logger}
}

// List handles GET /api/units?propertyId=&status=
func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.units.List(r.Context(), middleware.GetSessionFromContext(r.Context()), service.UnitQuery{
		PropertyID: q.Get("propertyId"),
		Status:     domain.UnitStatus(q.Get("status")),
	})
	writeResult(w, h.logger, r, http.StatusOK, items, err)
}

func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUnitInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	u, err := h.units.Create(r.Context(), middleware.GetSessionFromContext(r.Context()), req)
	writeResult(w, h.logger, r, http.StatusCreated, u, err)
}

// Get handles GET /api/units/{id}. Units are public.
func (h *UnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.units.Get(r.Context(), r.PathValue("id"))
	writeResult(w, h.logger, r, http.StatusOK, u, err)
}

func (h *UnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.UnitPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	u, err := h.units.Update(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), patch)
	writeResult(w, h.logger, r, http.StatusOK, u, err)
}

func (h *UnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.units.Delete(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeMessage(w, "Unit deleted successfully")
}
