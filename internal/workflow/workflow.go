// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package workflow implements the authenticated project mutations: create,
// update and delete. Each one validates input, stores uploaded images,
// writes the row and finally asks the page cache to refresh every path
// that shows the project.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"portfolio/internal/content"
	"portfolio/internal/models"
	"portfolio/internal/upload"
)

// Actions recorded with each revalidation.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Repository is the persistence the workflows need.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	SlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Uploader stores one image and returns its display reference.
type Uploader interface {
	Save(ctx context.Context, f upload.File) (string, error)
}

// Revalidator refreshes cached renderings of the given paths. It is called
// only after a successful write and cannot fail the request.
type Revalidator interface {
	Revalidate(ctx context.Context, action, actor string, paths ...string)
}

// Service runs the project workflows.
type Service struct {
	repo        Repository
	uploads     Uploader
	revalidator Revalidator
	validate    *validator.Validate
}

// New creates a Service. A nil revalidator disables cache refresh.
func New(repo Repository, uploads Uploader, revalidator Revalidator) *Service {
	return &Service{
		repo:        repo,
		uploads:     uploads,
		revalidator: revalidator,
		validate:    newValidator(),
	}
}

var errUnauthenticated = models.NewError(models.ErrUnauthenticated, "Unauthorized.")

// ProjectPath is the public detail path of a project.
func ProjectPath(slug string) string {
	return "/projects/" + slug
}

// Create validates in, stores its images and inserts the project. The cover
// image is mandatory. Nothing is uploaded unless validation and the slug
// check pass.
func (s *Service) Create(ctx context.Context, p *models.Principal, in Input) (*models.Project, error) {
	if p == nil {
		return nil, errUnauthenticated
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}
	if in.Cover == nil {
		return nil, models.NewError(models.ErrValidation, "Cover image is required.")
	}

	if err := s.ensureSlugFree(ctx, in.Slug, uuid.Nil, "Failed to create project."); err != nil {
		return nil, err
	}

	gallery, err := s.saveAll(ctx, in.Gallery)
	if err != nil {
		return nil, err
	}
	cover, err := s.save(ctx, *in.Cover)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Project{
		Title:            in.Title,
		Slug:             in.Slug,
		ShortDescription: in.ShortDescription,
		Content:          content.Build(in.sections()),
		CoverImage:       cover,
		Gallery:          models.StringList(gallery),
		Tools:            models.StringList(nonNil(in.Tools)),
		Featured:         in.Featured,
	})
	if err != nil {
		slog.Error("create project failed", "slug", in.Slug, "error", err)
		return nil, storageError("Failed to create project.", err)
	}

	slog.Info("project created", "id", created.ID, "slug", created.Slug, "admin", p.Username)
	s.revalidate(ctx, ActionCreate, p, "/", "/portfolio", ProjectPath(created.Slug), "/admin")
	return created, nil
}

// Update rewrites an existing project. Without a new cover the existing one
// is kept. The gallery becomes the kept images, minus those listed in
// RemoveGallery, followed by the new uploads.
func (s *Service) Update(ctx context.Context, p *models.Principal, in Input) (*models.Project, error) {
	if p == nil {
		return nil, errUnauthenticated
	}
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("Failed to update project.", err)
	}
	if existing == nil {
		return nil, models.NewError(models.ErrNotFound, "Project not found.")
	}

	if in.Slug != existing.Slug {
		if err := s.ensureSlugFree(ctx, in.Slug, id, "Failed to update project."); err != nil {
			return nil, err
		}
	}

	cover := existing.CoverImage
	if in.Cover != nil {
		if cover, err = s.save(ctx, *in.Cover); err != nil {
			return nil, err
		}
	}

	added, err := s.saveAll(ctx, in.Gallery)
	if err != nil {
		return nil, err
	}
	gallery := append(keep(existing.Gallery, in.RemoveGallery), added...)

	updated := *existing
	updated.Title = in.Title
	updated.Slug = in.Slug
	updated.ShortDescription = in.ShortDescription
	updated.Content = content.Build(in.sections())
	updated.CoverImage = cover
	updated.Gallery = models.StringList(gallery)
	updated.Tools = models.StringList(nonNil(in.Tools))
	updated.Featured = in.Featured

	if err := s.repo.Update(ctx, &updated); err != nil {
		slog.Error("update project failed", "id", id, "error", err)
		return nil, storageError("Failed to update project.", err)
	}

	slog.Info("project updated", "id", id, "slug", updated.Slug, "admin", p.Username)
	paths := []string{"/", "/portfolio", ProjectPath(existing.Slug)}
	if updated.Slug != existing.Slug {
		paths = append(paths, ProjectPath(updated.Slug))
	}
	s.revalidate(ctx, ActionUpdate, p, append(paths, "/admin")...)
	return &updated, nil
}

// Delete removes a project. A missing id or project is an error.
func (s *Service) Delete(ctx context.Context, p *models.Principal, rawID string) error {
	if p == nil {
		return errUnauthenticated
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storageError("Failed to delete project.", err)
	}
	if existing == nil {
		return models.NewError(models.ErrNotFound, "Project not found.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		slog.Error("delete project failed", "id", id, "error", err)
		return storageError("Failed to delete project.", err)
	}

	slog.Info("project deleted", "id", id, "slug", existing.Slug, "admin", p.Username)
	s.revalidate(ctx, ActionDelete, p, "/", "/portfolio", ProjectPath(existing.Slug), "/admin")
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug string, exceptID uuid.UUID, failMsg string) error {
	taken, err := s.repo.SlugTaken(ctx, slug, exceptID)
	if err != nil {
		return storageError(failMsg, err)
	}
	if taken {
		return models.NewError(models.ErrConflict, "Slug already exists.")
	}
	return nil
}

// saveAll stores files in order and stops at the first failure.
func (s *Service) saveAll(ctx context.Context, files []upload.File) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, f := range files {
		ref, err := s.save(ctx, f)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *Service) save(ctx context.Context, f upload.File) (string, error) {
	ref, err := s.uploads.Save(ctx, f)
	if err != nil {
		var me *models.Error
		if errors.As(err, &me) {
			return "", err
		}
		return "", models.WrapError(models.ErrStorage, "Failed to store image.", err)
	}
	return ref, nil
}

func (s *Service) revalidate(ctx context.Context, action string, p *models.Principal, paths ...string) {
	if s.revalidator == nil {
		return
	}
	s.revalidator.Revalidate(ctx, action, p.Username, paths...)
}

func parseID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, models.NewError(models.ErrValidation, "Missing project id.")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, models.WrapError(models.ErrNotFound, "Project not found.", err)
	}
	return id, nil
}

// storageError passes classified errors through and wraps anything else as
// ErrStorage with msg.
func storageError(msg string, err error) error {
	var me *models.Error
	if errors.As(err, &me) {
		return err
	}
	return models.WrapError(models.ErrStorage, msg, err)
}

// keep returns gallery without the entries listed in remove, preserving order.
func keep(gallery, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, r := range remove {
		drop[r] = true
	}
	kept := make([]string, 0, len(gallery))
	for _, g := range gallery {
		if !drop[g] {
			kept = append(kept, g)
		}
	}
	return kept
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
