// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for serialized JSON responses.
// Public read endpoints (article lists, category trees, top stories) store
// their encoded payloads here so repeated requests skip the DB queries and
// tree assembly entirely. Writes to the corresponding entities invalidate
// the affected keys.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a cached response stays valid.
	DefaultResponseTTL = 5 * time.Minute
)

// ResponseCache manages cached JSON response bodies in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns false on miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores an encoded response body with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if err := rc.client.Set(ctx, responseKeyPrefix+key, body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single cached response.
func (rc *ResponseCache) Invalidate(ctx context.Context, key string) {
	if err := rc.client.Del(ctx, responseKeyPrefix+key).Err(); err != nil {
		slog.Warn("response cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("response cache invalidated", "key", key)
}

// InvalidatePrefix removes all cached responses whose key starts with the
// given prefix. Used after writes: saving an article clears every cached
// article listing regardless of its filter parameters.
func (rc *ResponseCache) InvalidatePrefix(ctx context.Context, prefix string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, responseKeyPrefix+prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "prefix", prefix, "deleted", deleted)
	}
}

// ArticleListKey returns the cache key for an article listing with the given
// query string. The query is part of the key so distinct filters cache
// separately.
func ArticleListKey(query string) string {
	return fmt.Sprintf("articles:list:%s", query)
}

// ArticleKey returns the cache key for a single article by slug.
func ArticleKey(slug string) string {
	return "articles:detail:" + slug
}

// CategoryTreeKey returns the cache key for the category tree at a depth.
func CategoryTreeKey(depth int) string {
	return fmt.Sprintf("categories:tree:%d", depth)
}

// TopStoriesKey is the cache key for the featured articles listing.
const TopStoriesKey = "articles:top"

// RecommendedKey is the cache key for the recommended articles listing.
const RecommendedKey = "articles:recommended"
