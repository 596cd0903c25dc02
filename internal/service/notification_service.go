package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgNotificationNotFound = "Notification not found"

// NotificationService stores in-app notifications and pushes them to connected clients
type NotificationService struct {
	notifications domain.NotificationRepository
	hub           *Hub
	guard         *security.Guard
	logger        *slog.Logger
	now           func() time.Time
}

func NewNotificationService(repo domain.NotificationRepository, hub *Hub, guard *security.Guard, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	if hub == nil {
		hub = NewHub()
	}
	return &NotificationService{
		notifications: repo,
		hub:           hub,
		guard:         guard,
		logger:        logger,
		now:           time.Now,
	}
}

// Hub exposes the realtime fan-out used by the websocket endpoint
func (s *NotificationService) Hub() *Hub {
	return s.hub
}

// NotifyInput describes a system notification
type NotifyInput struct {
	UserID  primitive.ObjectID
	Type    domain.NotificationType
	Title   string
	Message string
	Data    map[string]any
}

// Notify stores a notification for its recipient and pushes it to live connections
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) (*domain.Notification, error) {
	if in.UserID.IsZero() || in.Title == "" || in.Message == "" {
		return nil, domain.NewValidationError(msgMissingFields)
	}
	if in.Type == "" {
		in.Type = domain.NotificationSystem
	}

	sent := s.now().UTC()
	n := &domain.Notification{
		UserID:   in.UserID,
		Type:     in.Type,
		Title:    in.Title,
		Message:  in.Message,
		Data:     in.Data,
		Channels: []string{"in_app"},
		SentAt:   &sent,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	s.hub.Publish(n)
	return n, nil
}

// notify is the fire-and-forget form used for side effects of other operations
func (s *NotificationService) notify(ctx context.Context, in NotifyInput) {
	if s == nil {
		return
	}
	if _, err := s.Notify(ctx, in); err != nil {
		logError(s.logger, "failed to send notification", err,
			slog.String("user_id", in.UserID.Hex()),
			slog.String("type", string(in.Type)),
		)
	}
}

// List returns the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, sess *auth.Session, unreadOnly bool) ([]*domain.Notification, error) {
	userID, err := security.UserObjectID(sess)
	if err != nil {
		return nil, err
	}
	return s.notifications.List(ctx, domain.NotificationFilter{
		UserID:     &userID,
		UnreadOnly: unreadOnly,
		Limit:      domain.DefaultListLimit,
	})
}

// MarkRead flags one of the caller's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, sess *auth.Session, rawID string) (*domain.Notification, error) {
	n, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	readAt := s.now().UTC()
	n.Read = true
	n.ReadAt = &readAt
	if err := s.notifications.Update(ctx, n); err != nil {
		return nil, notFound(err, msgNotificationNotFound)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, sess *auth.Session, rawID string) error {
	n, err := s.owned(ctx, sess, rawID)
	if err != nil {
		return err
	}
	return notFound(s.notifications.Delete(ctx, n.ID), msgNotificationNotFound)
}

func (s *NotificationService) owned(ctx context.Context, sess *auth.Session, rawID string) (*domain.Notification, error) {
	if _, err := s.guard.RequireAuth(sess); err != nil {
		return nil, err
	}
	id, err := domain.ParseID(rawID)
	if err != nil {
		return nil, domain.NewNotFoundError(msgNotificationNotFound)
	}
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgNotificationNotFound)
	}
	if err := s.guard.Authorize(ctx, sess, domain.EntityNotification, n.ID, n.UserID); err != nil {
		return nil, err
	}
	return n, nil
}
