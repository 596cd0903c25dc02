package handler

import (
	"log/slog"
	"net/http"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

// PaymentHandler serves rent and deposit payments
type PaymentHandler struct {
	payments *service.PaymentService
	logger   *slog.Logger
}

func NewPaymentHandler(payments *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentHandler{payments: payments, logger: logger}
}

// List handles GET /api/payments?leaseId=&status=
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.payments.List(r.Context(), middleware.GetSessionFromContext(r.Context()), service.PaymentQuery{
		LeaseID: q.Get("leaseId"),
		Status:  domain.PaymentStatus(q.Get("status")),
	})
	writeResult(w, h.logger, r, http.StatusOK, items, err)
}

// Create handles POST /api/payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePaymentInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.payments.Create(r.Context(), middleware.GetSessionFromContext(r.Context()), req)
	writeResult(w, h.logger, r, http.StatusCreated, p, err)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.Get(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"))
	writeResult(w, h.logger, r, http.StatusOK, p, err)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.PaymentPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.payments.Update(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), patch)
	writeResult(w, h.logger, r, http.StatusOK, p, err)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Delete(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeMessage(w, "Payment deleted successfully")
}
