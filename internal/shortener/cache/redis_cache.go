package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"linklytics/internal/shortener/domain"
	"linklytics/internal/shortener/usecase"
)

const (
	linkKeyPrefix  = "link:"
	aliasKeyPrefix = "lurl:"
)

// Compile-time interface checks
var (
	_ usecase.LinkCache = (*RedisLinkCache)(nil)
	_ usecase.LinkCache = (*noopLinkCache)(nil)
)

// RedisLinkCache caches alias→link and longURL→alias mappings with a fixed
// TTL. All Redis errors degrade to cache misses so the persistent store
// stays authoritative.
type RedisLinkCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLinkCache creates a Redis-backed link cache. Returns a no-op cache
// if the client is nil.
func NewRedisLinkCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) usecase.LinkCache {
	if rdb == nil {
		return &noopLinkCache{}
	}
	return &RedisLinkCache{rdb: rdb, ttl: ttl, logger: logger}
}

// cachedLink is the serialization format; only what the redirect path needs.
type cachedLink struct {
	ID      int64  `json:"id"`
	Alias   string `json:"alias"`
	LongURL string `json:"long_url"`
}

func (c *RedisLinkCache) GetLink(ctx context.Context, alias string) (*domain.ShortLink, error) {
	data, err := c.rdb.Get(ctx, linkKeyPrefix+alias).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("link cache read failed", zap.String("alias", alias), zap.Error(err))
		}
		return nil, nil
	}

	var cached cachedLink
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("corrupt link cache entry", zap.String("alias", alias), zap.Error(err))
		return nil, nil
	}

	return &domain.ShortLink{
		ID:      cached.ID,
		Alias:   cached.Alias,
		LongURL: cached.LongURL,
	}, nil
}

func (c *RedisLinkCache) SetLink(ctx context.Context, link *domain.ShortLink) error {
	data, err := json.Marshal(cachedLink{
		ID:      link.ID,
		Alias:   link.Alias,
		LongURL: link.LongURL,
	})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, linkKeyPrefix+link.Alias, data, c.ttl).Err()
}

func (c *RedisLinkCache) GetAlias(ctx context.Context, longURL string) (string, error) {
	alias, err := c.rdb.Get(ctx, aliasKeyPrefix+longURL).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("reverse cache read failed", zap.Error(err))
		}
		return "", nil
	}
	return alias, nil
}

func (c *RedisLinkCache) SetAlias(ctx context.Context, longURL, alias string) error {
	return c.rdb.Set(ctx, aliasKeyPrefix+longURL, alias, c.ttl).Err()
}

// noopLinkCache is used when Redis is not configured; every read is a miss.
type noopLinkCache struct{}

func (noopLinkCache) GetLink(context.Context, string) (*domain.ShortLink, error) { return nil, nil }
func (noopLinkCache) SetLink(context.Context, *domain.ShortLink) error           { return nil }
func (noopLinkCache) GetAlias(context.Context, string) (string, error)           { return "", nil }
func (noopLinkCache) SetAlias(context.Context, string, string) error             { return nil }
