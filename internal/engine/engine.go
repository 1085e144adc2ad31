// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders the public portfolio pages. Templates are embedded
// in the binary and compiled once by New; each page is paired with the
// shared layout. Project narrative is decoded from the stored content blob
// and its sections are rendered as Markdown.
package engine

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/content"
	"portfolio/internal/markdown"
	"portfolio/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by render.
const (
	pageHome      = "home"
	pagePortfolio = "portfolio"
	pageProject   = "project"
	pageNotFound  = "not_found"
)

// FeaturedLimit is the number of featured projects shown on the home page.
const FeaturedLimit = 3

// ProjectView is a project prepared for a template: decoded sections with
// the long-form ones already converted to HTML.
type ProjectView struct {
	Title            string
	Slug             string
	ShortDescription string
	CoverImage       string
	Gallery          []string
	Tools            []string
	Date             string
	ExternalLink     string
	Videos           []string
	Description      template.HTML
	Objective        template.HTML
	Process          template.HTML
	Results          template.HTML
	Lessons          template.HTML
	HasDetails       bool
}

// NewProjectView decodes p's content blob. A blob without a description
// (for example one that starts with a section header) shows the raw blob
// instead, so no text is ever hidden.
func NewProjectView(p *models.Project) ProjectView {
	s := content.Extract(p.Content)
	description := s.Description
	if description == "" {
		description = p.Content
	}
	return ProjectView{
		Title:            p.Title,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription,
		CoverImage:       p.CoverImage,
		Gallery:          p.Gallery,
		Tools:            p.Tools,
		Date:             s.Date,
		ExternalLink:     s.ExternalLink,
		Videos:           s.Videos,
		Description:      markdown.Render(description),
		Objective:        markdown.Render(s.Objective),
		Process:          markdown.Render(s.Process),
		Results:          markdown.Render(s.Results),
		Lessons:          markdown.Render(s.Lessons),
		HasDetails:       s.HasDetails(),
	}
}

// PageData holds the variables every public template can use.
type PageData struct {
	Profile config.Profile
	Title   string
	Year    int

	Projects []ProjectView  // home: featured, portfolio: all
	Project  *ProjectView   // project detail
	Metrics  models.Metrics // home only
}

// Engine renders public pages from the embedded templates.
type Engine struct {
	pages   map[string]*template.Template
	profile config.Profile
	now     func() time.Time
}

// New compiles every public template.
func New(profile config.Profile) (*Engine, error) {
	funcs := template.FuncMap{
		// firstN returns at most n leading items.
		"firstN": func(n int, items []string) []string {
			if len(items) > n {
				return items[:n]
			}
			return items
		},
		"lastUpdated": func(t *time.Time) string {
			if t == nil {
				return "N/A"
			}
			return t.Format("January 2, 2006")
		},
	}

	e := &Engine{
		pages:   make(map[string]*template.Template),
		profile: profile,
		now:     time.Now,
	}
	for _, name := range []string{pageHome, pagePortfolio, pageProject, pageNotFound} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS, "templates/layout.html", "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		e.pages[name] = tmpl
	}
	return e, nil
}

// RenderHome renders the landing page with the featured projects and the
// portfolio metrics.
func (e *Engine) RenderHome(featured []models.Project, m models.Metrics) ([]byte, error) {
	return e.render(pageHome, &PageData{
		Title:    e.profile.Name,
		Projects: views(featured),
		Metrics:  m,
	})
}

// RenderPortfolio renders the full project listing.
func (e *Engine) RenderPortfolio(projects []models.Project) ([]byte, error) {
	return e.render(pagePortfolio, &PageData{
		Title:    "Portfolio",
		Projects: views(projects),
	})
}

// RenderProject renders a single project's detail page.
func (e *Engine) RenderProject(p *models.Project) ([]byte, error) {
	v := NewProjectView(p)
	return e.render(pageProject, &PageData{
		Title:   p.Title,
		Project: &v,
	})
}

// RenderNotFound renders the 404 page.
func (e *Engine) RenderNotFound() ([]byte, error) {
	return e.render(pageNotFound, &PageData{Title: "Not Found"})
}

func (e *Engine) render(name string, data *PageData) ([]byte, error) {
	tmpl, ok := e.pages[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	data.Profile = e.profile
	data.Year = e.now().Year()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func views(projects []models.Project) []ProjectView {
	out := make([]ProjectView, len(projects))
	for i := range projects {
		out[i] = NewProjectView(&projects[i])
	}
	return out
}
