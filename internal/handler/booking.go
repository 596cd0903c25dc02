package handler

import (
	"log/slog"
	"net/http"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

// BookingHandler serves viewing and move-in requests
type BookingHandler struct {
	bookings *service.BookingService
	logger   *slog.Logger
}

func NewBookingHandler(bookings *service.BookingService, logger *slog.Logger) *BookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingHandler{bookings: bookings, logger: logger}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.bookings.List(r.Context(), middleware.GetSessionFromContext(r.Context()), service.BookingQuery{
		UnitID: q.Get("unitId"),
		Status: domain.BookingStatus(q.Get("status")),
	})
	writeResult(w, h.logger, r, http.StatusOK, items, err)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookingInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	b, err := h.bookings.Create(r.Context(), middleware.GetSessionFromContext(r.Context()), req)
	writeResult(w, h.logger, r, http.StatusCreated, b, err)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"))
	writeResult(w, h.logger, r, http.StatusOK, b, err)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.BookingPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	b, err := h.bookings.Update(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), patch)
	writeResult(w, h.logger, r, http.StatusOK, b, err)
}

// Respond handles PUT /api/bookings/{id}/respond
func (h *BookingHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req service.RespondInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	b, err := h.bookings.Respond(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), req)
	writeResult(w, h.logger, r, http.StatusOK, b, err)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Delete(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeMessage(w, "Booking deleted successfully")
}
