// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for the portfolio's
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"portfolio/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const projectColumns = `id, title, slug, short_description, content, cover_image,
	gallery, tools, featured, created_at, updated_at`

// ProjectStore handles all project-related database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.ShortDescription, &p.Content, &p.CoverImage,
		&p.Gallery, &p.Tools, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// FindByID retrieves a project by its UUID. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError("find project by id", err)
	}
	return p, nil
}

// FindBySlug retrieves a project by its slug. Returns nil if not found.
func (s *ProjectStore) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError("find project by slug", err)
	}
	return p, nil
}

// ListAll returns every project, newest first.
func (s *ProjectStore) ListAll(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, "list projects",
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id`)
}

// ListFeatured returns at most limit featured projects, newest first.
func (s *ProjectStore) ListFeatured(ctx context.Context, limit int) ([]models.Project, error) {
	return s.list(ctx, "list featured projects",
		`SELECT `+projectColumns+` FROM projects WHERE featured
		 ORDER BY created_at DESC, id LIMIT $1`, limit)
}

func (s *ProjectStore) list(ctx context.Context, op, query string, args ...any) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// SlugTaken reports whether a project other than exceptID already uses slug.
// Pass uuid.Nil to check against every project.
func (s *ProjectStore) SlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE slug = $1 AND id <> $2)`,
		slug, exceptID,
	).Scan(&exists)
	if err != nil {
		return false, dbError("check project slug", err)
	}
	return exists, nil
}

// Create inserts a new project and returns it with the generated ID and
// timestamps. A slug already in use yields an ErrConflict error, whether it
// is caught by the pre-check or by the unique constraint.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	taken, err := s.SlugTaken(ctx, p.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, slugConflict(nil)
	}

	created, err := scanProject(s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, slug, short_description, content, cover_image,
		                      gallery, tools, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectColumns,
		p.Title, p.Slug, p.ShortDescription, p.Content, p.CoverImage,
		p.Gallery, p.Tools, p.Featured,
	))
	if isUniqueViolation(err) {
		return nil, slugConflict(err)
	}
	if err != nil {
		return nil, dbError("create project", err)
	}
	return created, nil
}

// Update overwrites every mutable column of an existing project. It returns
// an ErrNotFound error when the row no longer exists.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	taken, err := s.SlugTaken(ctx, p.Slug, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return slugConflict(nil)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET
			title = $1, slug = $2, short_description = $3, content = $4,
			cover_image = $5, gallery = $6, tools = $7, featured = $8,
			updated_at = NOW()
		WHERE id = $9
	`, p.Title, p.Slug, p.ShortDescription, p.Content, p.CoverImage,
		p.Gallery, p.Tools, p.Featured, p.ID,
	)
	if isUniqueViolation(err) {
		return slugConflict(err)
	}
	if err != nil {
		return dbError("update project", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NewError(models.ErrNotFound, "Project not found.")
	}
	return nil
}

// Delete removes a project by ID. It returns an ErrNotFound error when the
// row no longer exists.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return dbError("delete project", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NewError(models.ErrNotFound, "Project not found.")
	}
	return nil
}

// ComputeMetrics summarises every project for the homepage.
func (s *ProjectStore) ComputeMetrics(ctx context.Context) (models.Metrics, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tools, featured, updated_at FROM projects`)
	if err != nil {
		return models.Metrics{}, fmt.Errorf("query project metrics: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.Tools, &p.Featured, &p.UpdatedAt); err != nil {
			return models.Metrics{}, fmt.Errorf("scan project metrics: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return models.Metrics{}, fmt.Errorf("iterate project metrics: %w", err)
	}
	return models.ComputeMetrics(projects), nil
}

func slugConflict(cause error) error {
	const msg = "Slug already exists."
	if cause != nil {
		return models.WrapError(models.ErrConflict, msg, cause)
	}
	return models.NewError(models.ErrConflict, msg)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
