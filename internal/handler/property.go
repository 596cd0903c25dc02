package handler

import (
	"log/slog"
	"net/http"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

// PropertyHandler serves landlord listings and their moderation
type PropertyHandler struct {
	properties *service.PropertyService
	logger     *slog.Logger
}

func NewPropertyHandler(properties *service.PropertyService, logger *slog.Logger) *PropertyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyHandler{properties: properties, logger: logger}
}

// List handles GET /api/properties?status=&city=&landlordId=
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.properties.List(r.Context(), middleware.GetSessionFromContext(r.Context()), service.PropertyQuery{
		Status:     domain.PropertyStatus(q.Get("status")),
		City:       q.Get("city"),
		LandlordID: q.Get("landlordId"),
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePropertyInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.properties.Create(r.Context(), middleware.GetSessionFromContext(r.Context()), req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

// Get handles GET /api/properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.Get(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// Update handles PATCH /api/properties/{id}
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.PropertyPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.properties.Update(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// UpdatePaymentAccount handles PATCH /api/properties/{id}/payment-account
func (h *PropertyHandler) UpdatePaymentAccount(w http.ResponseWriter, r *http.Request) {
	var account domain.PaymentAccount
	if err := decodeJSON(r, &account); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.properties.UpdatePaymentAccount(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), account)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// Delete handles DELETE /api/properties/{id}
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.properties.Delete(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeMessage(w, "Property deleted successfully")
}
