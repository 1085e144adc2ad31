// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// portfolio site. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"context"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/web"
)

// Options carries the deployment-dependent parts of the routing tree.
type Options struct {
	// Secure marks a TLS deployment: HSTS is sent and the CSRF cookie is
	// flagged Secure.
	Secure bool

	// UploadDir is served under UploadURLPrefix when set. It is empty when
	// uploads go to the remote blob service.
	UploadDir       string
	UploadURLPrefix string

	// MaxAdminBody caps admin request bodies, uploads included.
	MaxAdminBody int64

	// Prepare, when set, runs before every admin and public page request.
	// It brings the database schema up once PostgreSQL is reachable.
	Prepare func(context.Context) error
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimiter may be nil.
func New(opts Options, sessions middleware.SessionReader, loginLimiter *middleware.RateLimiter, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewSecureHeaders(opts.Secure))

	// Health check and metrics: no session, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	static, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", noListing(http.FileServer(http.FS(static)))))
	}
	if opts.UploadDir != "" {
		prefix := strings.TrimSuffix(opts.UploadURLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", noListing(http.FileServer(http.Dir(opts.UploadDir)))))
	}

	// Admin routes: body limit first, since CSRF validation parses forms.
	r.Route("/admin", func(r chi.Router) {
		if opts.Prepare != nil {
			r.Use(middleware.EnsureReady(opts.Prepare))
		}
		if opts.MaxAdminBody > 0 {
			r.Use(middleware.LimitBody(opts.MaxAdminBody))
		}
		r.Use(middleware.NewCSRF(opts.Secure))
		r.Use(middleware.LoadSession(sessions))

		// Auth pages, accessible without a session.
		r.Get("/login", auth.LoginPage)
		if loginLimiter != nil {
			r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		} else {
			r.Post("/login", auth.LoginSubmit)
		}
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", admin.Projects)
			r.Route("/projects", func(r chi.Router) {
				r.Get("/new", admin.ProjectNew)
				r.Get("/slug", admin.SlugSuggest)
				r.Post("/", admin.ProjectCreate)
				r.Get("/{id}/edit", admin.ProjectEdit)
				r.Post("/{id}", admin.ProjectUpdate)
				r.Post("/{id}/delete", admin.ProjectDelete)
			})
		})
	})

	// Public site.
	r.Group(func(r chi.Router) {
		if opts.Prepare != nil {
			r.Use(middleware.EnsureReady(opts.Prepare))
		}
		r.Get("/", public.Homepage)
		r.Get("/portfolio", public.Portfolio)
		r.Get("/projects/{slug}", public.Project)
	})
	r.NotFound(public.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// noListing answers 404 for directory paths instead of an index page.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
