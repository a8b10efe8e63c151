// internal/cache/memory.go
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache on sync.Map with lazy expiry. It backs
// tests and deployments that run without redis.
type MemoryCache struct {
	entries sync.Map
}

type memoryEntry struct {
	blob      []byte
	expiresAt int64 // unix nano, 0 means never
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, ok := c.entries.Load(key)
	if !ok {
		return false, nil
	}
	entry := val.(memoryEntry)
	if entry.expiresAt != 0 && time.Now().UnixNano() > entry.expiresAt {
		c.entries.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(entry.blob, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var expiresAt int64
	if ttl != KeepForever {
		if ttl == 0 {
			ttl = DefaultTTL
		}
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	c.entries.Store(key, memoryEntry{blob: blob, expiresAt: expiresAt})
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.entries.Delete(key)
	return nil
}
