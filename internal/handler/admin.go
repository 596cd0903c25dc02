package handler

import (
	"log/slog"
	"net/http"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

// AdminHandler handles moderation endpoints. Every action checks the admin role in the service.
type AdminHandler struct {
	properties *service.PropertyService
	users      *service.AuthService
	logger     *slog.Logger
}

func NewAdminHandler(properties *service.PropertyService, users *service.AuthService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{properties: properties, users: users, logger: logger}
}

// RejectRequest optionally explains a rejection to the landlord
type RejectRequest struct {
	Reason string `json:"reason"`
}

// UserStatusRequest sets an account state
type UserStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// PendingProperties handles GET /api/admin/properties/pending
func (h *AdminHandler) PendingProperties(w http.ResponseWriter, r *http.Request) {
	items, err := h.properties.ListPending(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

// Approve handles PUT /api/admin/properties/{id}/approve
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.Approve(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// Reject handles PUT /api/admin/properties/{id}/reject
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req RejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	p, err := h.properties.Reject(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), req.Reason)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// SetUserStatus handles PUT /api/admin/users/{id}/status
func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req UserStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	u, err := h.users.SetStatus(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}
