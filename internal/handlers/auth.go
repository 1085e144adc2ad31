// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/render"
)

// Authenticator verifies admin credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.Principal, bool)
}

// SessionWriter issues and clears session cookies.
type SessionWriter interface {
	Create(w http.ResponseWriter, p *models.Principal) error
	Destroy(w http.ResponseWriter)
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	authn    Authenticator
	sessions SessionWriter
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, authn Authenticator, sessions SessionWriter) *Auth {
	return &Auth{
		renderer: renderer,
		authn:    authn,
		sessions: sessions,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in: go straight to the console.
	if middleware.PrincipalFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Username": ""},
	})
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	p, ok := a.authn.Authenticate(r.Context(), username, password)
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		a.renderer.PageStatus(w, r, http.StatusUnauthorized, "login", &render.PageData{
			Title:   "Sign In",
			Data:    map[string]any{"Username": username},
			Flashes: []render.Flash{{Type: "error", Message: "Invalid credentials."}},
		})
		return
	}

	if err := a.sessions.Create(w, p); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	result := "success"
	if p.IsFallback() {
		result = "fallback"
		slog.Warn("admin signed in with fallback credentials", "username", p.Username, "remote", r.RemoteAddr)
	} else {
		slog.Info("admin signed in", "username", p.Username)
	}
	metrics.LoginAttemptsTotal.WithLabelValues(result).Inc()
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
