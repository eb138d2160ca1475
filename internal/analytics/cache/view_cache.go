package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"linklytics/internal/analytics/usecase"
)

// Compile-time interface checks
var (
	_ usecase.ViewCache = (*RedisViewCache)(nil)
	_ usecase.ViewCache = noopViewCache{}
)

// RedisViewCache caches computed analytics views as JSON with a short TTL.
// All failures degrade to recomputation.
type RedisViewCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisViewCache creates a Redis-backed view cache. Returns a no-op cache
// if the client is nil.
func NewRedisViewCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) usecase.ViewCache {
	if rdb == nil {
		return noopViewCache{}
	}
	return &RedisViewCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *RedisViewCache) Get(ctx context.Context, key string, out any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("view cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("corrupt view cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *RedisViewCache) Set(ctx context.Context, key string, view any) {
	data, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("failed to marshal view for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache view", zap.String("key", key), zap.Error(err))
	}
}

// noopViewCache is used when Redis is not configured.
type noopViewCache struct{}

func (noopViewCache) Get(context.Context, string, any) bool { return false }
func (noopViewCache) Set(context.Context, string, any)      {}
