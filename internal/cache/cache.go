// Package cache is an optional Redis read-through for dashboard payloads.
//
// Caching here is strictly additive: with no TTL configured, or no Redis
// reachable, every call falls through to the compute function and returns
// its result. A cache failure is logged and otherwise invisible to callers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantumreach/outreach-server/internal/pkg/logger"
)

// Cache wraps a Redis client with JSON read-through semantics.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache. A nil client or zero TTL yields a disabled cache
// whose GetOrCompute always recomputes.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether cached reads are in effect.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

// Key builds a namespaced cache key from its parts.
func Key(parts ...string) string {
	key := "dash"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// GetOrCompute returns the cached JSON value for key, or runs compute and
// stores its result. dst must be a pointer; on a hit it is filled from the
// cached bytes, on a miss compute's result is marshalled into it.
func (c *Cache) GetOrCompute(ctx context.Context, key string, dst any, compute func(ctx context.Context) (any, error)) error {
	if !c.Enabled() {
		return c.computeInto(ctx, key, dst, compute)
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		if err := json.Unmarshal(raw, dst); err == nil {
			return nil
		}
		// A corrupt entry falls through to recompute and gets overwritten.
		logger.Warn("cache entry unreadable, recomputing", "key", key)
	} else if err != redis.Nil {
		logger.Warn("cache read failed, recomputing", "key", key, "error", err.Error())
	}

	return c.computeInto(ctx, key, dst, compute)
}

// Invalidate removes a cached entry. Errors are logged, not returned.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		logger.Warn("cache invalidate failed", "key", key, "error", err.Error())
	}
}

func (c *Cache) computeInto(ctx context.Context, key string, dst any, compute func(ctx context.Context) (any, error)) error {
	val, err := compute(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal computed value: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal computed value: %w", err)
	}

	if c.Enabled() {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			logger.Warn("cache write failed", "key", key, "error", err.Error())
		}
	}
	return nil
}
