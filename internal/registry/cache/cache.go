// Package cache provides a Redis read-through cache for token metadata.
// The registry state store stays the source of truth; the cache only
// shortcuts repeated metadata reads from collaborators (marketplace, royalty
// distributor) and is invalidated by metadata and goal updates.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"steward/internal/registry/metrics"
	"steward/internal/registry/models"
)

// Redis caches metadata records with a TTL. All failures degrade to cache
// misses; the caller falls back to the store.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger, metrics: m}
}

func key(tokenID uint64) string {
	return fmt.Sprintf("registry:metadata:%d", tokenID)
}

// Get returns the cached metadata for tokenID, or false on miss.
func (c *Redis) Get(ctx context.Context, tokenID uint64) (*models.Metadata, bool) {
	raw, err := c.client.Get(ctx, key(tokenID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "metadata cache read failed", "token_id", tokenID, "error", err)
		}
		c.incMiss()
		return nil, false
	}
	var md models.Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		c.logger.WarnContext(ctx, "metadata cache entry corrupt", "token_id", tokenID, "error", err)
		c.incMiss()
		return nil, false
	}
	c.incHit()
	return &md, true
}

// Set stores metadata for tokenID with the configured TTL.
func (c *Redis) Set(ctx context.Context, tokenID uint64, md *models.Metadata) {
	raw, err := json.Marshal(md)
	if err != nil {
		c.logger.WarnContext(ctx, "metadata cache encode failed", "token_id", tokenID, "error", err)
		return
	}
	if err := c.client.Set(ctx, key(tokenID), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "metadata cache write failed", "token_id", tokenID, "error", err)
	}
}

// Invalidate drops the cached entry for tokenID.
func (c *Redis) Invalidate(ctx context.Context, tokenID uint64) {
	if err := c.client.Del(ctx, key(tokenID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "metadata cache invalidation failed", "token_id", tokenID, "error", err)
	}
}

func (c *Redis) incHit() {
	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}
}

func (c *Redis) incMiss() {
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
}
