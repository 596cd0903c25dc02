package handler

import (
	"log/slog"
	"net/http"

	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/logger"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  *service.AuthService
	tokens       *auth.TokenManager
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session cookie
// Secure, which production deployments require.
func NewAuthHandler(authService *service.AuthService, tokens *auth.TokenManager, secureCookie bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService:  authService,
		tokens:       tokens,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		h.logger.Info("registration failed",
			slog.String("email", logger.MaskEmail(req.Email)),
			slog.String("error", err.Error()),
		)
		writeError(w, h.logger, r, err)
		return
	}

	h.logger.Info("user registered successfully",
		slog.String("user_id", result.User.ID.Hex()),
		slog.String("role", string(result.User.Role)),
	)

	auth.SetSessionCookie(w, result.Token, h.tokens.TTL(), h.secureCookie)
	writeData(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req, middleware.ClientIP(r))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	h.logger.Info("user logged in successfully",
		slog.String("user_id", result.User.ID.Hex()),
	)

	auth.SetSessionCookie(w, result.Token, h.tokens.TTL(), h.secureCookie)
	writeData(w, http.StatusOK, result)
}

// Logout handles POST /api/auth/logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookie)
	writeMessage(w, "Logged out successfully")
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// ChangePasswordRequest represents change password request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	sess := middleware.GetSessionFromContext(r.Context())
	if err := h.authService.ChangePassword(r.Context(), sess, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeMessage(w, "Password changed successfully")
}
