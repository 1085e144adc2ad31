// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSchemaPending is returned by Schema.Ensure while a failed attempt is
// still inside its retry interval.
var ErrSchemaPending = errors.New("database schema not ready")

const (
	schemaRetryInterval = 10 * time.Second
	schemaPingTimeout   = 5 * time.Second
)

// Schema brings the database schema up to date once the server can reach
// PostgreSQL. The server starts even when the database is down; reads
// degrade and writes fail until Ensure succeeds.
type Schema struct {
	ready atomic.Bool

	mu      sync.Mutex
	lastTry time.Time

	ping    func(ctx context.Context) error
	migrate func() error
	now     func() time.Time
	retry   time.Duration
}

// NewSchema returns a Schema that pings and migrates db.
func NewSchema(db *sql.DB) *Schema {
	return &Schema{
		ping:    db.PingContext,
		migrate: func() error { return Migrate(db) },
		now:     time.Now,
		retry:   schemaRetryInterval,
	}
}

// Ready reports whether migrations have been applied.
func (s *Schema) Ready() bool {
	return s.ready.Load()
}

// Ensure applies pending migrations unless that already succeeded. After a
// failure, further attempts within the retry interval return
// ErrSchemaPending without touching the database.
func (s *Schema) Ensure(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready.Load() {
		return nil
	}
	if !s.lastTry.IsZero() && s.now().Sub(s.lastTry) < s.retry {
		return ErrSchemaPending
	}
	s.lastTry = s.now()

	pingCtx, cancel := context.WithTimeout(ctx, schemaPingTimeout)
	defer cancel()
	if err := s.ping(pingCtx); err != nil {
		slog.Warn("database unreachable", "error", err)
		return fmt.Errorf("database ping: %w", err)
	}
	if err := s.migrate(); err != nil {
		slog.Error("database migration failed", "error", err)
		return err
	}

	s.ready.Store(true)
	return nil
}
