package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinkCacheDisabledDegradesToMiss(t *testing.T) {
	cache := NewLinkCache(nil, "kompi", time.Minute)
	ctx := context.Background()

	cached, ok := cache.Get(ctx, "abc123")
	assert.False(t, ok)
	assert.Nil(t, cached)

	// No-ops rather than panics when Redis is not configured.
	cache.Set(ctx, "abc123", CachedLink{LinkID: 1, TargetURL: "https://example.com"})
	cache.Invalidate(ctx, "abc123", "")
	cache.Invalidate(ctx)
}

func TestLinkCacheNilReceiver(t *testing.T) {
	var cache *LinkCache
	ctx := context.Background()

	cached, ok := cache.Get(ctx, "abc123")
	assert.False(t, ok)
	assert.Nil(t, cached)
	cache.Set(ctx, "abc123", CachedLink{})
	cache.Invalidate(ctx, "abc123")
}

func TestLinkCacheDefaults(t *testing.T) {
	cache := NewLinkCache(nil, "", 0)
	assert.Equal(t, "kompi:link:abc123", cache.key("abc123"))
	assert.Equal(t, time.Minute, cache.ttl)
}
