package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/redis"
)

func TestLimiterSlidingWindow(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(2, time.Minute)
	defer l.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "a"))
	assert.False(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "b"))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, l.Allow(ctx, "a"))
}

func TestLimiterResetAndEmptyKey(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(1, time.Minute)
	defer l.Stop()

	assert.True(t, l.Allow(ctx, "a"))
	assert.False(t, l.Allow(ctx, "a"))
	l.Reset(ctx, "a")
	assert.True(t, l.Allow(ctx, "a"))

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(ctx, ""))
	}
}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	l := NewRedisLimiter(client, "login:", 2, time.Minute, nil)
	assert.True(t, l.Allow(ctx, "bob"))
	assert.True(t, l.Allow(ctx, "bob"))
	assert.False(t, l.Allow(ctx, "bob"))
	assert.True(t, mr.Exists("login:bob"))

	mr.FastForward(time.Minute)
	assert.True(t, l.Allow(ctx, "bob"))

	l.Reset(ctx, "bob")
	assert.False(t, mr.Exists("login:bob"))
}

type brokenCounter struct{}

func (brokenCounter) IncrWindow(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}
func (brokenCounter) Delete(context.Context, string) error { return errors.New("connection refused") }

func TestRedisLimiterFailsOpen(t *testing.T) {
	l := NewRedisLimiter(brokenCounter{}, "login:", 1, time.Minute, nil)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(context.Background(), "bob"))
	}
}
