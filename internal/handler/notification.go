package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/observability/metrics"
	"github.com/thedon-dev/Final-Year-Project/internal/security/middleware"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 15 * time.Second
)

// NotificationHandler serves a user's notifications over REST and a websocket push channel
type NotificationHandler struct {
	notifications  *service.NotificationService
	logger         *slog.Logger
	allowedOrigins []string
}

func NewNotificationHandler(notifications *service.NotificationService, allowedOrigins []string, logger *slog.Logger) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{
		notifications:  notifications,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// List handles GET /api/notifications?unread=true
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unread := r.URL.Query().Get("unread") == "true"
	items, err := h.notifications.List(r.Context(), middleware.GetSessionFromContext(r.Context()), unread)
	writeResult(w, h.logger, r, http.StatusOK, items, err)
}

// MarkRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.MarkRead(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id"))
	writeResult(w, h.logger, r, http.StatusOK, n, err)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.Delete(r.Context(), middleware.GetSessionFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeMessage(w, "Notification deleted successfully")
}

func (h *NotificationHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// non-browser clients send no origin
			if origin == "" || middleware.OriginAllowed(h.allowedOrigins, origin) {
				return true
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// Stream handles GET /ws/notifications. Each notification created for the caller
// after the upgrade is written as one JSON text frame.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		writeError(w, h.logger, r, domain.NewUnauthenticatedError("Authentication required"))
		return
	}

	upgrader := h.upgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	updates, cancel := h.notifications.Hub().Subscribe(sess.UserID)
	defer cancel()

	metrics.IncrementRealtimeClients()
	defer metrics.DecrementRealtimeClients()
	h.logger.Debug("notification stream opened", slog.String("user_id", sess.UserID))

	// the client never sends data; reading surfaces its close frame
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-updates:
			if !ok {
				return
			}
			ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := ws.WriteJSON(n); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("websocket closed", slog.String("user_id", sess.UserID))
				}
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		case <-closed:
			h.logger.Debug("notification stream closed", slog.String("user_id", sess.UserID))
			return
		case <-r.Context().Done():
			return
		}
	}
}
