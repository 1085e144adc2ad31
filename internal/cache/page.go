// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache.
// Public pages are stored under their request path so a write can drop
// exactly the paths that display the changed project. Every method is a
// no-op on a nil *PageCache, which is how the app runs without Valkey.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/internal/metrics"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 10 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PageKey returns the Valkey key for a request path.
func PageKey(path string) string {
	return pageKeyPrefix + path
}

// Get retrieves cached HTML for a path. Errors count as a miss.
func (pc *PageCache) Get(ctx context.Context, path string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, PageKey(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.PageCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "path", path, "error", err)
		metrics.PageCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.PageCacheTotal.WithLabelValues("hit").Inc()
	slog.Debug("page cache hit", "path", path)
	return val, true
}

// Set stores rendered HTML for a path with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, path string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, PageKey(path), html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "path", path, "error", err)
	}
}

// Invalidate removes the given paths from the cache and returns how many
// cached entries were dropped.
func (pc *PageCache) Invalidate(ctx context.Context, paths ...string) int {
	if pc == nil || len(paths) == 0 {
		return 0
	}
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = PageKey(p)
	}
	n, err := pc.client.Del(ctx, keys...).Result()
	if err != nil {
		slog.Warn("page cache invalidate error", "paths", paths, "error", err)
		return 0
	}
	slog.Debug("page cache invalidated", "paths", paths, "deleted", n)
	return int(n)
}

// InvalidateAll removes all cached pages by scanning for the prefix.
// Used at startup, since a new build may render every page differently.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
