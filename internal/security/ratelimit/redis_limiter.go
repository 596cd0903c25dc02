package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Counter is the subset of the Redis client the limiter needs
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

// RedisLimiter is a fixed-window throttle shared by every server instance.
// When Redis is unreachable it lets requests through.
type RedisLimiter struct {
	counter Counter
	prefix  string
	maxReqs int
	window  time.Duration
	logger  *slog.Logger
}

func NewRedisLimiter(counter Counter, prefix string, maxRequests int, window time.Duration, logger *slog.Logger) *RedisLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLimiter{
		counter: counter,
		prefix:  prefix,
		maxReqs: maxRequests,
		window:  window,
		logger:  logger,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if key == "" {
		return true
	}
	n, err := l.counter.IncrWindow(ctx, l.prefix+key, l.window)
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request", slog.String("error", err.Error()))
		return true
	}
	return n <= int64(l.maxReqs)
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) {
	if err := l.counter.Delete(ctx, l.prefix+key); err != nil {
		l.logger.Warn("rate limit reset failed", slog.String("error", err.Error()))
	}
}
