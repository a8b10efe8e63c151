// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL applies when Set is called with a zero ttl.
	DefaultTTL = 300 * time.Second

	// KeepForever disables expiry on a Set.
	KeepForever = time.Duration(-1)

	// blobField is the hash sub-field values are stored under. It must not
	// change: a warm cache written by older deployments uses the same field.
	blobField = "data"
)

// Cache is a pure side-cache over a TTL key-value store. A miss is (false,
// nil); errors mean the store itself misbehaved and callers are expected to
// degrade to a miss rather than fail their request.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache stores JSON blobs in a redis hash under a fixed sub-field.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	blob, err := c.rdb.HGet(ctx, key, blobField).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(blob), dest); err != nil {
		return false, fmt.Errorf("cache decode %q: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	if err := c.rdb.HSet(ctx, key, blobField, blob).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	if ttl == KeepForever {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("cache expire %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}
