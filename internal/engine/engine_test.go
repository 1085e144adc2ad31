// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/config"
	"portfolio/internal/content"
	"portfolio/internal/models"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(config.Profile{
		Name:    "Ada Example",
		Title:   "Full-Stack Engineer",
		Summary: "Builds reliable systems.",
		Email:   "ada@example.com",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return e
}

func testProject(slug string) models.Project {
	return models.Project{
		ID:               uuid.New(),
		Title:            "Harbor Lights",
		Slug:             slug,
		ShortDescription: "A lighting study.",
		Content: content.Build(content.Sections{
			Description:  "Intro text",
			Date:         "2024-01-01",
			Objective:    "Grow revenue",
			Results:      "Doubled signups",
			ExternalLink: "https://example.com/case",
			Videos:       []string{"https://video.example.com/1"},
		}),
		CoverImage: "/uploads/cover.png",
		Gallery:    models.StringList{"/uploads/g1.png", "/uploads/g2.png"},
		Tools:      models.StringList{"Go", "Postgres", "Valkey", "chi", "goose"},
		Featured:   true,
	}
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("output missing %q", w)
		}
	}
}

func TestNew(t *testing.T) {
	e := testEngine(t)
	for _, name := range []string{pageHome, pagePortfolio, pageProject, pageNotFound} {
		if _, ok := e.pages[name]; !ok {
			t.Errorf("expected template %q to be parsed", name)
		}
	}
}

func TestRenderHome(t *testing.T) {
	e := testEngine(t)
	updated := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	out, err := e.RenderHome([]models.Project{testProject("harbor-lights")}, models.Metrics{
		TotalProjects:    7,
		FeaturedProjects: 2,
		UniqueTools:      11,
		LastUpdated:      &updated,
	})
	if err != nil {
		t.Fatalf("RenderHome: %v", err)
	}
	body := string(out)

	assertContains(t, body,
		"<!DOCTYPE html>",
		"<title>Ada Example</title>",
		"Full-Stack Engineer",
		`href="/projects/harbor-lights"`,
		"<h4>Objective</h4>",
		"Grow revenue",
		`href="https://example.com/case"`,
		`<p class="metric">7</p>`,
		`<p class="metric">11</p>`,
		"June 2, 2025",
		"mailto:ada@example.com",
		"&copy; 2026 Ada Example",
	)
	if strings.Contains(body, "goose") {
		t.Error("cards should show at most four tools")
	}
}

func TestRenderHomeEmpty(t *testing.T) {
	e := testEngine(t)

	out, err := e.RenderHome(nil, models.Metrics{})
	if err != nil {
		t.Fatalf("RenderHome: %v", err)
	}
	assertContains(t, string(out), "No featured projects yet.", "N/A", `<p class="metric">0</p>`)
}

func TestRenderPortfolio(t *testing.T) {
	e := testEngine(t)

	out, err := e.RenderPortfolio([]models.Project{testProject("a"), testProject("b")})
	if err != nil {
		t.Fatalf("RenderPortfolio: %v", err)
	}
	body := string(out)
	assertContains(t, body, "<title>Portfolio | Ada Example</title>", `href="/projects/a"`, `href="/projects/b"`)

	out, err = e.RenderPortfolio(nil)
	if err != nil {
		t.Fatalf("RenderPortfolio: %v", err)
	}
	assertContains(t, string(out), "No projects are currently available.")
}

func TestRenderProject(t *testing.T) {
	e := testEngine(t)
	p := testProject("harbor-lights")

	out, err := e.RenderProject(&p)
	if err != nil {
		t.Fatalf("RenderProject: %v", err)
	}
	body := string(out)

	assertContains(t, body,
		"<h1>Harbor Lights</h1>",
		"2024-01-01",
		`src="/uploads/cover.png"`,
		"<p>Intro text</p>",
		"<h2>Objective</h2>",
		"<h2>Results</h2>",
		"<p>Doubled signups</p>",
		"https://video.example.com/1",
		`src="/uploads/g2.png"`,
		"<li>goose</li>",
	)
	if strings.Contains(body, "<h2>Process</h2>") {
		t.Error("absent sections must not render")
	}
}

func TestRenderProjectLegacyBlob(t *testing.T) {
	e := testEngine(t)
	p := testProject("legacy")
	p.Content = "Just a plain description.\nStill plain: nothing structured here."
	p.Gallery = nil

	out, err := e.RenderProject(&p)
	if err != nil {
		t.Fatalf("RenderProject: %v", err)
	}
	body := string(out)
	assertContains(t, body, "Just a plain description.", "Still plain: nothing structured here.")
	if strings.Contains(body, "<h2>Gallery</h2>") {
		t.Error("empty gallery must not render")
	}
}

func TestRenderProjectEscapes(t *testing.T) {
	e := testEngine(t)
	p := testProject("xss")
	p.Title = `<script>alert("x")</script>`
	p.Content = "Body\n\nExternal Link: javascript:alert(1)"

	out, err := e.RenderProject(&p)
	if err != nil {
		t.Fatalf("RenderProject: %v", err)
	}
	body := string(out)
	if strings.Contains(body, `<script>alert("x")</script>`) {
		t.Error("title must be escaped")
	}
	if strings.Contains(body, `href="javascript:alert(1)"`) {
		t.Error("unsafe link must be filtered")
	}
}

func TestNewProjectViewFallsBackToRawContent(t *testing.T) {
	p := testProject("x")
	p.Content = "Objective:\nOnly a section"

	v := NewProjectView(&p)
	if !strings.Contains(string(v.Description), "Only a section") {
		t.Errorf("Description = %q, want raw blob", v.Description)
	}
	if !v.HasDetails {
		t.Error("HasDetails should be true")
	}
}

func TestRenderNotFound(t *testing.T) {
	e := testEngine(t)
	out, err := e.RenderNotFound()
	if err != nil {
		t.Fatalf("RenderNotFound: %v", err)
	}
	assertContains(t, string(out), "Page not found")
}
