// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records page cache invalidations in the database for audit
// and debugging purposes. Each entry captures which public path was
// revalidated, when, by whom and why (create/update/delete).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// CacheLogStore handles cache invalidation log operations.
type CacheLogStore struct {
	db *sql.DB
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records a cache invalidation event. Failures are logged and
// otherwise ignored.
func (s *CacheLogStore) Log(ctx context.Context, path, action, admin string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_invalidation_log (path, action, admin)
		VALUES ($1, $2, NULLIF($3, ''))
	`, path, action, admin)
	if err != nil {
		slog.Warn("failed to log cache invalidation",
			"path", path,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged", "path", path, "action", action)
}

// RecentEntries returns the most recent cache invalidation events, newest
// first. Limited to the specified count.
func (s *CacheLogStore) RecentEntries(ctx context.Context, limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, action, COALESCE(admin, ''), created_at
		FROM cache_invalidation_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cache log: %w", err)
	}
	defer rows.Close()

	var entries []CacheLogEntry
	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.Path, &e.Action, &e.Admin, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan cache log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CacheLogEntry represents a single cache invalidation event.
type CacheLogEntry struct {
	ID            int64
	Path          string
	Action        string
	Admin         string
	InvalidatedAt time.Time
}
