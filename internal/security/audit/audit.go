package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/logger"
)

// Event is one audited action
type Event struct {
	At         time.Time
	Action     string
	Resource   string
	ResourceID string
	UserID     string
	Status     string
	Details    string
	RequestID  string
}

// Sink persists audit events
type Sink interface {
	Write(ctx context.Context, e Event) error
}

// Logger writes audit events to the structured log and, when configured, to a sink
type Logger struct {
	logger *slog.Logger
	sink   Sink
}

// NewLogger creates an audit logger. sink may be nil.
func NewLogger(log *slog.Logger, sink Sink) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{logger: log, sink: sink}
}

func (al *Logger) LogAction(ctx context.Context, userID, action, resource, resourceID, status, details string) {
	e := Event{
		At:         time.Now().UTC(),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		UserID:     userID,
		Status:     status,
		Details:    details,
		RequestID:  logger.RequestIDFromContext(ctx),
	}

	al.logger.Info("audit",
		slog.String("action", e.Action),
		slog.String("resource", e.Resource),
		slog.String("resource_id", e.ResourceID),
		slog.String("user_id", e.UserID),
		slog.String("status", e.Status),
		slog.String("details", e.Details),
		slog.String("request_id", e.RequestID),
		slog.Time("timestamp", e.At),
	)

	if al.sink == nil {
		return
	}
	if err := al.sink.Write(ctx, e); err != nil {
		al.logger.Error("failed to persist audit event",
			slog.String("action", e.Action),
			slog.String("error", err.Error()),
		)
	}
}

// LogStatusChange records a status overwrite on a lifecycle record
func (al *Logger) LogStatusChange(ctx context.Context, userID, resource, resourceID, from, to string) {
	al.LogAction(ctx, userID, "status_change", resource, resourceID, to, "from "+from)
}

func (al *Logger) LogDeletion(ctx context.Context, userID, resource, resourceID string) {
	al.LogAction(ctx, userID, "delete", resource, resourceID, "deleted", "")
}

// LogDenied records a refused access to a single record
func (al *Logger) LogDenied(ctx context.Context, userID, resource, resourceID, reason string) {
	al.LogAction(ctx, userID, "access_denied", resource, resourceID, "denied", reason)
}
