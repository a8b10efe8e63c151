// internal/cache/memory_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	err := c.Set(ctx, "item-1-tiki", payload{Name: "iphone", Price: 15000}, DefaultTTL)
	assert.NoError(t, err)

	var got payload
	found, err := c.Get(ctx, "item-1-tiki", &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "iphone", got.Name)
	assert.Equal(t, int64(15000), got.Price)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	var got payload
	found, err := c.Get(context.Background(), "absent", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	err := c.Set(ctx, "short-lived", payload{Name: "gone soon"}, 10*time.Millisecond)
	assert.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	var got payload
	found, err := c.Get(ctx, "short-lived", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheKeepForever(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	err := c.Set(ctx, "pinned", payload{Name: "stays"}, KeepForever)
	assert.NoError(t, err)

	var got payload
	found, err := c.Get(ctx, "pinned", &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "stays", got.Name)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "doomed", payload{Name: "x"}, DefaultTTL))
	assert.NoError(t, c.Delete(ctx, "doomed"))

	var got payload
	found, err := c.Get(ctx, "doomed", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}
