// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/cache"
	"portfolio/internal/engine"
	"portfolio/internal/models"
	"portfolio/internal/slug"
	"portfolio/internal/workflow"
)

// SiteReader is the degrading read side of the repository. Failures come
// back as empty results, never as errors.
type SiteReader interface {
	ListAll(ctx context.Context) []models.Project
	ListFeatured(ctx context.Context, limit int) []models.Project
	FindBySlug(ctx context.Context, slug string) *models.Project
	Metrics(ctx context.Context) models.Metrics
}

// Public groups handlers for the public-facing site. It checks the Valkey
// page cache before invoking the engine, and stores rendered results on
// miss. The workflows invalidate those entries after every write.
type Public struct {
	engine    *engine.Engine
	projects  SiteReader
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(eng *engine.Engine, projects SiteReader, pageCache *cache.PageCache) *Public {
	return &Public{
		engine:    eng,
		projects:  projects,
		pageCache: pageCache,
	}
}

// Homepage renders the featured projects and the portfolio metrics.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, "/", func(ctx context.Context) ([]byte, error) {
		featured := p.projects.ListFeatured(ctx, engine.FeaturedLimit)
		return p.engine.RenderHome(featured, p.projects.Metrics(ctx))
	})
}

// Portfolio renders every project, newest first.
func (p *Public) Portfolio(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, "/portfolio", func(ctx context.Context) ([]byte, error) {
		return p.engine.RenderPortfolio(p.projects.ListAll(ctx))
	})
}

// Project renders a single project by its slug.
func (p *Public) Project(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")
	if !slug.Valid(slugParam) {
		p.NotFound(w, r)
		return
	}

	path := workflow.ProjectPath(slugParam)
	if body, ok := p.pageCache.Get(r.Context(), path); ok {
		writeHTML(w, http.StatusOK, "HIT", body)
		return
	}

	project := p.projects.FindBySlug(r.Context(), slugParam)
	if project == nil {
		p.NotFound(w, r)
		return
	}

	body, err := p.engine.RenderProject(project)
	if err != nil {
		slog.Error("render project failed", "slug", slugParam, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	p.pageCache.Set(r.Context(), path, body)
	writeHTML(w, http.StatusOK, "MISS", body)
}

// NotFound renders the site's 404 page. It is never cached.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	body, err := p.engine.RenderNotFound()
	if err != nil {
		slog.Error("render not found page failed", "error", err)
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, "", body)
}

// cached serves path from the page cache or renders and stores it.
func (p *Public) cached(w http.ResponseWriter, r *http.Request, path string, build func(ctx context.Context) ([]byte, error)) {
	ctx := r.Context()
	if body, ok := p.pageCache.Get(ctx, path); ok {
		writeHTML(w, http.StatusOK, "HIT", body)
		return
	}

	body, err := build(ctx)
	if err != nil {
		slog.Error("render page failed", "path", path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	p.pageCache.Set(ctx, path, body)
	writeHTML(w, http.StatusOK, "MISS", body)
}

func writeHTML(w http.ResponseWriter, status int, cacheState string, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if cacheState != "" {
		w.Header().Set("X-Cache", cacheState)
	}
	w.WriteHeader(status)
	w.Write(body)
}
