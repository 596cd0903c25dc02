package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// RequestIDKey is used to store a request identifier on the context
type RequestIDKey struct{}

// NewLogger builds a JSON slog logger at the given level (debug, info, warn, error)
func NewLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a config string to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores a request id on ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored on ctx, if any
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return val
	}
	return ""
}

// FromContext attaches the request id on ctx to log
func FromContext(ctx context.Context, log *slog.Logger) *slog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return log.With(slog.String("request_id", id))
	}
	return log
}

// MaskEmail hides the local part of an address except its first characters.
// Example: john.doe@example.com -> joh***@example.com
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	local := email[:at]
	if len(local) > 3 {
		local = local[:3]
	}
	return local + "***" + email[at:]
}
