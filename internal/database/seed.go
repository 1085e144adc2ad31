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
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for admin password hashes.
const PasswordCost = 12

// ProvisionAdmin makes the given credentials the single stored admin. When
// no admin exists one is created; otherwise the oldest admin is overwritten
// and every other admin row is removed.
func ProvisionAdmin(ctx context.Context, db *sql.DB, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("provision admin: ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return fmt.Errorf("provision admin bcrypt: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("provision admin begin: %w", err)
	}
	defer tx.Rollback()

	var primaryID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM admins ORDER BY created_at, id LIMIT 1 FOR UPDATE`,
	).Scan(&primaryID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO admins (username, password_hash) VALUES ($1, $2)`,
			username, string(hash),
		); err != nil {
			return fmt.Errorf("provision admin insert: %w", err)
		}
		slog.Info("admin created", "username", username)

	case err != nil:
		return fmt.Errorf("provision admin lookup: %w", err)

	default:
		// Other rows go first so the new username cannot collide with them.
		res, err := tx.ExecContext(ctx, `DELETE FROM admins WHERE id <> $1`, primaryID)
		if err != nil {
			return fmt.Errorf("provision admin prune: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE admins SET username = $1, password_hash = $2, updated_at = now()
			WHERE id = $3
		`, username, string(hash), primaryID); err != nil {
			return fmt.Errorf("provision admin update: %w", err)
		}
		removed, _ := res.RowsAffected()
		slog.Info("admin updated", "username", username, "removed", removed)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("provision admin commit: %w", err)
	}
	return nil
}
