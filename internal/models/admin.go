// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// FallbackPrincipalID identifies the environment-configured recovery admin.
// It can never collide with a stored admin, whose IDs are UUIDs.
const FallbackPrincipalID = "env-admin"

// Admin is the single administrative account stored in the admins table.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is an authenticated identity, either a stored admin or the
// environment fallback admin.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// IsFallback reports whether the principal came from the environment
// credential pair rather than the admins table.
func (p *Principal) IsFallback() bool {
	return p.ID == FallbackPrincipalID
}
