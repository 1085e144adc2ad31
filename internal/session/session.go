// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides stateless admin sessions. The session is an
// HS256-signed token carrying the principal id, username and expiry, stored
// in a secure cookie and verified on each request without a store lookup.
//
// Tokens cannot be revoked: changing or deleting the admin record does not
// invalidate tokens that were already issued until they expire.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"portfolio/internal/config"
	"portfolio/internal/models"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "portfolio_session"

	// DefaultTTL is how long an issued session stays valid.
	DefaultTTL = 24 * time.Hour

	issuer = "portfolio"
)

// ErrInvalid is returned by Verify for malformed, forged or expired tokens.
var ErrInvalid = errors.New("invalid session token")

// Claims is the signed session payload. The principal id travels in the
// standard subject claim.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens.
type Manager struct {
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a Manager from the signing secret and session TTL in
// cfg. Cookies are marked Secure outside development.
func NewManager(cfg *config.Config) *Manager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		key:    cfg.SessionKey(),
		ttl:    ttl,
		secure: !cfg.IsDev(),
		now:    time.Now,
	}
}

// Issue signs a token for p and returns it with its expiry.
func (m *Manager) Issue(p *models.Principal) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		Username: p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session sign: %w", err)
	}
	return token, exp, nil
}

// Verify checks the signature and expiry of token and returns its principal.
func (m *Manager) Verify(token string) (*models.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if claims.Subject == "" || claims.Username == "" {
		return nil, fmt.Errorf("%w: missing principal", ErrInvalid)
	}
	return &models.Principal{ID: claims.Subject, Username: claims.Username}, nil
}

// Create issues a token for p and sets it as the session cookie.
func (m *Manager) Create(w http.ResponseWriter, p *models.Principal) error {
	token, exp, err := m.Issue(p)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Get returns the principal from the request's session cookie, or nil when
// there is no valid session.
func (m *Manager) Get(r *http.Request) *models.Principal {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	p, err := m.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	return p
}

// Destroy expires the session cookie.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
