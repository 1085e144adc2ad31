// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"log/slog"

	"portfolio/internal/metrics"
)

// InvalidationLog records which paths were revalidated.
type InvalidationLog interface {
	Log(ctx context.Context, path, action, admin string)
}

// Revalidator drops cached pages after a project write and records each
// path in the invalidation log. Failures are logged, never returned.
type Revalidator struct {
	pages *PageCache
	log   InvalidationLog
}

// NewRevalidator creates a Revalidator. Either argument may be nil.
func NewRevalidator(pages *PageCache, log InvalidationLog) *Revalidator {
	return &Revalidator{pages: pages, log: log}
}

// Revalidate invalidates paths on behalf of actor.
func (r *Revalidator) Revalidate(ctx context.Context, action, actor string, paths ...string) {
	deleted := r.pages.Invalidate(ctx, paths...)
	metrics.PagesRevalidatedTotal.WithLabelValues(action).Add(float64(len(paths)))

	if r.log != nil {
		for _, p := range paths {
			r.log.Log(ctx, p, action, actor)
		}
	}

	slog.Info("pages revalidated",
		"action", action,
		"admin", actor,
		"paths", paths,
		"cached", deleted,
	)
}
