// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"portfolio/internal/metrics"
	"portfolio/internal/models"
)

// ProjectSource is the read side of ProjectStore.
type ProjectSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Project, error)
	ComputeMetrics(ctx context.Context) (models.Metrics, error)
}

// ProjectReader serves project reads that never fail: when the database
// errors, each method logs a warning and returns an empty result so public
// pages still render.
type ProjectReader struct {
	src ProjectSource
}

// NewProjectReader wraps src with degrade-to-empty reads.
func NewProjectReader(src ProjectSource) *ProjectReader {
	return &ProjectReader{src: src}
}

// FindByID returns the project or nil.
func (r *ProjectReader) FindByID(ctx context.Context, id uuid.UUID) *models.Project {
	return withFallback("find project by id", func() (*models.Project, error) {
		return r.src.FindByID(ctx, id)
	}, nil)
}

// FindBySlug returns the project or nil.
func (r *ProjectReader) FindBySlug(ctx context.Context, slug string) *models.Project {
	return withFallback("find project by slug", func() (*models.Project, error) {
		return r.src.FindBySlug(ctx, slug)
	}, nil)
}

// ListAll returns every project, newest first.
func (r *ProjectReader) ListAll(ctx context.Context) []models.Project {
	return withFallback("list projects", func() ([]models.Project, error) {
		return r.src.ListAll(ctx)
	}, nil)
}

// ListFeatured returns at most limit featured projects, newest first.
func (r *ProjectReader) ListFeatured(ctx context.Context, limit int) []models.Project {
	return withFallback("list featured projects", func() ([]models.Project, error) {
		return r.src.ListFeatured(ctx, limit)
	}, nil)
}

// Metrics returns the portfolio metrics, zero-valued on failure.
func (r *ProjectReader) Metrics(ctx context.Context) models.Metrics {
	return withFallback("compute metrics", func() (models.Metrics, error) {
		return r.src.ComputeMetrics(ctx)
	}, models.Metrics{})
}

func withFallback[T any](op string, query func() (T, error), fallback T) T {
	v, err := query()
	if err != nil {
		slog.Warn("degraded read", "op", op, "error", err)
		metrics.DegradedReadsTotal.WithLabelValues(op).Inc()
		return fallback
	}
	return v
}
