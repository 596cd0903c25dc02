package worker

import (
	"context"
	"time"

	"github.com/thedon-dev/Final-Year-Project/pkg/cache"
)

// SetNXer is the redis operation the shared deduper needs
type SetNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
}

// RedisDeduper claims keys in redis so several server replicas send each reminder once
type RedisDeduper struct {
	client SetNXer
}

func NewRedisDeduper(client SetNXer) *RedisDeduper {
	return &RedisDeduper{client: client}
}

func (d *RedisDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return d.client.SetNX(ctx, key, 1, ttl)
}

// CacheDeduper claims keys in process memory. It is only correct for a single replica.
type CacheDeduper struct {
	cache *cache.Cache
}

func NewCacheDeduper(c *cache.Cache) *CacheDeduper {
	return &CacheDeduper{cache: c}
}

func (d *CacheDeduper) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return d.cache.SetIfAbsent(key, struct{}{}, ttl), nil
}

// Purge forgets claims that have outlived their TTL
func (d *CacheDeduper) Purge() int {
	return d.cache.Purge()
}
