// Package services contains infrastructure clients used by the business flows
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedLink is the resolver-side projection of an active link
type CachedLink struct {
	LinkID    uint   `json:"link_id"`
	TargetURL string `json:"target_url"`
}

// LinkCache caches active code lookups in Redis with a short TTL so
// hot codes skip the database on the redirect path. A nil client
// disables the cache; every method degrades to a miss. Cache failures
// are logged and treated as misses, never surfaced to the resolver.
type LinkCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewLinkCache(client *redis.Client, prefix string, ttl time.Duration) *LinkCache {
	if prefix == "" {
		prefix = "kompi"
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LinkCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *LinkCache) key(code string) string {
	return fmt.Sprintf("%s:link:%s", c.prefix, code)
}

func (c *LinkCache) Get(ctx context.Context, code string) (*CachedLink, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.key(code)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("link cache get failed for code %s: %v", code, err)
		}
		return nil, false
	}
	var cached CachedLink
	if err := json.Unmarshal(raw, &cached); err != nil {
		log.Printf("link cache decode failed for code %s: %v", code, err)
		return nil, false
	}
	return &cached, true
}

func (c *LinkCache) Set(ctx context.Context, code string, cached CachedLink) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(code), raw, c.ttl).Err(); err != nil {
		log.Printf("link cache set failed for code %s: %v", code, err)
	}
}

// Invalidate drops a cached code after updates, deactivation, renames
// and deletes, so edits take effect within one request rather than one
// TTL.
func (c *LinkCache) Invalidate(ctx context.Context, codes ...string) {
	if c == nil || c.client == nil || len(codes) == 0 {
		return
	}
	keys := make([]string, 0, len(codes))
	for _, code := range codes {
		if code != "" {
			keys = append(keys, c.key(code))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("link cache invalidate failed: %v", err)
	}
}
