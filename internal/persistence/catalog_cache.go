package persistence

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CatalogCache is the Redis-backed cache for public catalog listings.
// Backend failures degrade to cache misses; listings always have the
// database as source of truth.
type CatalogCache struct {
	redis  *Redis
	logger *zap.Logger
}

// NewCatalogCache constructs the cache.
func NewCatalogCache(redis *Redis, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{redis: redis, logger: logger}
}

// Get returns a cached value and whether it was present.
func (c *CatalogCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

// Set stores a value with TTL.
func (c *CatalogCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("catalog cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes cached entries after catalog writes.
func (c *CatalogCache) Invalidate(ctx context.Context, keys ...string) {
	if c.redis == nil || c.redis.Client == nil || len(keys) == 0 {
		return
	}
	if err := c.redis.Client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
