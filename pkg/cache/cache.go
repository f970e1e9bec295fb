// Package cache provides a small Redis-backed string cache with expiration.
// A nil *Cache is valid and behaves as a cache that always misses, so callers
// do not need to branch on whether caching is configured.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"character-chat-demo/backend/pkg/logger"
)

// Cache wraps a Redis client for get/set with TTL semantics
type Cache struct {
	client *redis.Client
	log    *logger.Logger
}

// New creates a cache backed by the Redis instance at addr.
// Returns nil when addr is empty, which disables caching.
func New(addr string, log *logger.Logger) *Cache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Cache{client: client, log: log}
}

// Get returns the cached value for key and whether it was present.
// Errors (including a down Redis) are reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.log.Warn("cache get failed", "key", key, "error", err.Error())
		return "", false
	}
	return val, true
}

// Set stores value under key with the given expiration. Failures are logged
// and otherwise ignored; the cache is best effort.
func (c *Cache) Set(ctx context.Context, key, value string, expiration time.Duration) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, expiration).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err.Error())
	}
}

// Del removes key from the cache
func (c *Cache) Del(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("cache del failed", "key", key, "error", err.Error())
	}
}
