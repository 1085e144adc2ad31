// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth verifies admin credentials against the stored admin record,
// falling back to the credential pair from the environment when the stored
// lookup does not produce an admin.
package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"portfolio/internal/config"
	"portfolio/internal/models"
)

// AdminFinder looks up stored admins. It returns (nil, nil) when the
// username is unknown.
type AdminFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// Authenticator checks a username/password pair and yields a principal.
type Authenticator struct {
	admins           AdminFinder
	fallbackUsername string
	fallbackPassword string
}

// New creates an Authenticator. The fallback pair comes from
// ADMIN_USERNAME / ADMIN_PASSWORD and is disabled when either is empty.
func New(admins AdminFinder, cfg *config.Config) *Authenticator {
	return &Authenticator{
		admins:           admins,
		fallbackUsername: cfg.AdminUsername,
		fallbackPassword: cfg.AdminPassword,
	}
}

// Authenticate returns the principal for valid credentials. Any failure,
// including a store error, is reported as (nil, false).
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.Principal, bool) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, false
	}

	admin, err := a.admins.FindByUsername(ctx, username)
	if err != nil {
		slog.Warn("admin lookup failed, trying fallback credentials", "error", err)
	}
	if admin != nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
			return nil, false
		}
		return &models.Principal{ID: admin.ID.String(), Username: admin.Username}, true
	}

	if a.matchesFallback(username, password) {
		return &models.Principal{ID: models.FallbackPrincipalID, Username: username}, true
	}
	return nil, false
}

func (a *Authenticator) matchesFallback(username, password string) bool {
	if a.fallbackUsername == "" || a.fallbackPassword == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.fallbackUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.fallbackPassword)) == 1
	return userOK && passOK
}
