package handler

import (
	"log/slog"
	"net/http"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

// LeaseHandler serves tenancy agreements
type LeaseHandler struct {
	leases *service.LeaseService
	logger *slog.Logger
}

func NewLeaseHandler(leases *service.LeaseService, logger *slog.Logger) *LeaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaseHandler{leases: leases, logger: logger}
}

func (h *LeaseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.leases.List(r.Context(), middleware.GetSessionFromContext(r.Context()), service.LeaseQuery{
		UnitID: q.Get("unitId"),
		Status: domain.LeaseStatus(q.Get("status")),
	})
	writeResult(w, h.logger, r, http.StatusOK, items, err)
}

func (h *LeaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLeaseInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	l, err := h.leases.Create(r.Context(), middleware.GetSessionFromContext(r.Context()), req)
	writeResult(w, h.logger, r, http.StatusCreated, l, err)
}

func (h *LeaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.leases.Get(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"))
	writeResult(w, h.logger, r, http.StatusOK, l, err)
}

func (h *LeaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.LeasePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	l, err := h.leases.Update(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), patch)
	writeResult(w, h.logger, r, http.StatusOK, l, err)
}

func (h *LeaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.leases.Delete(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeMessage(w, "Lease deleted successfully")
}
