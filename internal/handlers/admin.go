// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the portfolio site.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/render"
	"portfolio/internal/slug"
	"portfolio/internal/store"
	"portfolio/internal/workflow"
)

// recentInvalidations is how many cache log entries the listing shows.
const recentInvalidations = 10

// ProjectLister is the read side of the project repository used by the
// admin console.
type ProjectLister interface {
	ListAll(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// CacheLogReader lists recent page cache invalidations.
type CacheLogReader interface {
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// Admin groups all admin console HTTP handlers and their dependencies.
type Admin struct {
	renderer  *render.Renderer
	projects  ProjectLister
	mutations *workflow.Service
	cacheLog  CacheLogReader
}

// NewAdmin creates a new Admin handler group. cacheLog may be nil.
func NewAdmin(renderer *render.Renderer, projects ProjectLister, mutations *workflow.Service, cacheLog CacheLogReader) *Admin {
	return &Admin{
		renderer:  renderer,
		projects:  projects,
		mutations: mutations,
		cacheLog:  cacheLog,
	}
}

// Projects renders the project listing together with the most recent
// cache invalidations.
func (a *Admin) Projects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := &render.PageData{
		Title:   "Projects",
		Section: "projects",
		Data:    map[string]any{},
	}

	projects, err := a.projects.ListAll(ctx)
	if err != nil {
		slog.Error("list projects failed", "error", err)
		data.Flashes = append(data.Flashes, render.Flash{Type: "error", Message: "Projects could not be loaded."})
	}
	data.Data["Projects"] = projects

	if a.cacheLog != nil {
		entries, err := a.cacheLog.RecentEntries(ctx, recentInvalidations)
		if err != nil {
			slog.Warn("list cache log failed", "error", err)
		}
		data.Data["CacheLog"] = entries
	}

	a.renderer.Page(w, r, "projects", data)
}

// ProjectNew renders an empty project form.
func (a *Admin) ProjectNew(w http.ResponseWriter, r *http.Request) {
	a.renderForm(w, r, http.StatusOK, "New project", render.ProjectForm{}, "")
}

// ProjectCreate handles the new project form submission.
func (a *Admin) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := parseProjectForm(r)
	defer cleanup()
	if err != nil {
		a.mutationFailed(w, r, workflow.ActionCreate, formParseError(err), render.ProjectForm{})
		return
	}

	_, err = a.mutations.Create(r.Context(), middleware.PrincipalFromCtx(r.Context()), in)
	if err != nil {
		a.mutationFailed(w, r, workflow.ActionCreate, err, formFromInput(in))
		return
	}

	metrics.ProjectMutationsTotal.WithLabelValues(workflow.ActionCreate, "ok").Inc()
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ProjectEdit renders the edit form prefilled from the stored project.
func (a *Admin) ProjectEdit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Project not found.", http.StatusNotFound)
		return
	}

	p, err := a.projects.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find project failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "Project not found.", http.StatusNotFound)
		return
	}

	a.renderForm(w, r, http.StatusOK, "Edit project", formFromProject(p), "")
}

// ProjectUpdate handles the edit form submission. The id in the URL wins
// over the hidden form field.
func (a *Admin) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := parseProjectForm(r)
	defer cleanup()
	if id := chi.URLParam(r, "id"); id != "" {
		in.ID = id
	}
	if err != nil {
		a.mutationFailed(w, r, workflow.ActionUpdate, formParseError(err), a.editorFor(r.Context(), in))
		return
	}

	_, err = a.mutations.Update(r.Context(), middleware.PrincipalFromCtx(r.Context()), in)
	if err != nil {
		a.mutationFailed(w, r, workflow.ActionUpdate, err, a.editorFor(r.Context(), in))
		return
	}

	metrics.ProjectMutationsTotal.WithLabelValues(workflow.ActionUpdate, "ok").Inc()
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ProjectDelete removes a project. As with updates, the id in the URL wins
// over the form field. Failures are page-level responses, not inline form
// errors.
func (a *Admin) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.FormValue("id")
	}

	err := a.mutations.Delete(r.Context(), middleware.PrincipalFromCtx(r.Context()), id)
	if err != nil {
		outcome := "rejected"
		switch {
		case errors.Is(err, models.ErrUnauthenticated):
			metrics.ProjectMutationsTotal.WithLabelValues(workflow.ActionDelete, outcome).Inc()
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		case errors.Is(err, models.ErrStorage), errors.Is(err, models.ErrUnavailable):
			outcome = "error"
			slog.Error("delete project failed", "id", id, "error", err)
		}
		metrics.ProjectMutationsTotal.WithLabelValues(workflow.ActionDelete, outcome).Inc()
		http.Error(w, models.Message(err), statusFor(err))
		return
	}

	metrics.ProjectMutationsTotal.WithLabelValues(workflow.ActionDelete, "ok").Inc()
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// SlugSuggest returns a slug derived from the title query parameter.
func (a *Admin) SlugSuggest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"slug": slug.Generate(r.URL.Query().Get("title"))})
}

// mutationFailed answers a rejected create or update. Session loss goes
// back to the login page, a vanished project is a 404, and everything
// else re-renders the form with the error message inline.
func (a *Admin) mutationFailed(w http.ResponseWriter, r *http.Request, action string, err error, form render.ProjectForm) {
	outcome := "rejected"
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		metrics.ProjectMutationsTotal.WithLabelValues(action, outcome).Inc()
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	case errors.Is(err, models.ErrNotFound):
		metrics.ProjectMutationsTotal.WithLabelValues(action, outcome).Inc()
		http.Error(w, models.Message(err), http.StatusNotFound)
		return
	case errors.Is(err, models.ErrStorage), errors.Is(err, models.ErrUnavailable):
		outcome = "error"
		slog.Error("project mutation failed", "action", action, "error", err)
	default:
		slog.Info("project mutation rejected", "action", action, "reason", models.Message(err))
	}
	metrics.ProjectMutationsTotal.WithLabelValues(action, outcome).Inc()

	title := "New project"
	if action == workflow.ActionUpdate {
		title = "Edit project"
	}
	a.renderForm(w, r, statusFor(err), title, form, models.Message(err))
}

// editorFor rebuilds the edit form after a failed update, keeping the
// stored images visible next to the submitted text.
func (a *Admin) editorFor(ctx context.Context, in workflow.Input) render.ProjectForm {
	form := formFromInput(in)
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return form
	}
	if p, err := a.projects.FindByID(ctx, id); err == nil && p != nil {
		form.CoverImage = p.CoverImage
		form.Gallery = p.Gallery
	}
	return form
}

func (a *Admin) renderForm(w http.ResponseWriter, r *http.Request, status int, title string, form render.ProjectForm, errMsg string) {
	section := "projects"
	if form.ID == "" {
		section = "new"
	}
	data := map[string]any{"Form": form}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.PageStatus(w, r, status, "project_form", &render.PageData{
		Title:   title,
		Section: section,
		Data:    data,
	})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
