// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: an in-memory repository, a recording uploader and a page cache
// backed by miniredis.
package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/engine"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/render"
	"portfolio/internal/store"
	"portfolio/internal/upload"
	"portfolio/internal/workflow"
)

// memRepo is an in-memory project repository. It satisfies the workflow
// repository, the admin lister and the public read source.
type memRepo struct {
	mu       sync.Mutex
	projects []models.Project
	listErr  error
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindBySlug(_ context.Context, s string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.Slug == s {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memRepo) ListAll(_ context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Project(nil), m.projects...), nil
}

func (m *memRepo) ListFeatured(ctx context.Context, limit int) ([]models.Project, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Project
	for _, p := range all {
		if p.Featured && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) ComputeMetrics(ctx context.Context) (models.Metrics, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return models.Metrics{}, err
	}
	return models.ComputeMetrics(all), nil
}

func (m *memRepo) SlugTaken(_ context.Context, s string, exceptID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.Slug == s && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *p
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.projects = append([]models.Project{created}, m.projects...)
	return &created, nil
}

func (m *memRepo) Update(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == p.ID {
			m.projects[i] = *p
			m.projects[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return models.NewError(models.ErrNotFound, "Project not found.")
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return nil
		}
	}
	return nil
}

// seed stores p directly and returns the stored copy.
func (m *memRepo) seed(p models.Project) models.Project {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	m.mu.Lock()
	m.projects = append(m.projects, p)
	m.mu.Unlock()
	return p
}

// recordingUploader stores nothing; it returns /uploads/<name> and keeps
// the bytes it read.
type recordingUploader struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func (u *recordingUploader) Save(_ context.Context, f upload.File) (string, error) {
	b, err := io.ReadAll(f.Body)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.saved == nil {
		u.saved = make(map[string][]byte)
	}
	ref := "/uploads/" + f.Name
	u.saved[ref] = b
	return ref, nil
}

func (u *recordingUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.saved)
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	repo     *memRepo
	uploads  *recordingUploader
	pages    *cache.PageCache
	mr       *miniredis.Miniredis
	admin    *Admin
	auth     *Auth
	public   *Public
	router   chi.Router
	owner    *models.Principal
	sessions *stubSessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	pages := cache.NewPageCache(client, time.Minute)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	eng, err := engine.New(config.Profile{Name: "Ada Example", Title: "Designer"})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	env := &testEnv{
		repo:     &memRepo{},
		uploads:  &recordingUploader{},
		pages:    pages,
		mr:       mr,
		owner:    &models.Principal{ID: "env", Username: "owner"},
		sessions: &stubSessions{},
	}
	mutations := workflow.New(env.repo, env.uploads, cache.NewRevalidator(pages, nil))
	env.admin = NewAdmin(renderer, env.repo, mutations, nil)
	env.auth = NewAuth(renderer, stubAuthenticator{username: "owner", password: "s3cret"}, env.sessions)
	env.public = NewPublic(eng, store.NewProjectReader(env.repo), pages)

	r := chi.NewRouter()
	r.Get("/", env.public.Homepage)
	r.Get("/portfolio", env.public.Portfolio)
	r.Get("/projects/{slug}", env.public.Project)
	r.NotFound(env.public.NotFound)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", env.auth.LoginPage)
		r.Post("/login", env.auth.LoginSubmit)
		r.Post("/logout", env.auth.Logout)
		r.Get("/", env.admin.Projects)
		r.Get("/projects/new", env.admin.ProjectNew)
		r.Get("/projects/slug", env.admin.SlugSuggest)
		r.Post("/projects", env.admin.ProjectCreate)
		r.Get("/projects/{id}/edit", env.admin.ProjectEdit)
		r.Post("/projects/{id}", env.admin.ProjectUpdate)
		r.Post("/projects/{id}/delete", env.admin.ProjectDelete)
	})
	env.router = r
	return env
}

// serve runs req through the test router, optionally as the signed-in owner.
func (env *testEnv) serve(req *http.Request, signedIn bool) *httptest.ResponseRecorder {
	if signedIn {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), env.owner))
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

type stubAuthenticator struct {
	username, password string
}

func (s stubAuthenticator) Authenticate(_ context.Context, username, password string) (*models.Principal, bool) {
	if username == s.username && password == s.password {
		return &models.Principal{ID: "env", Username: username}, true
	}
	if username == "recovery" && password == "break-glass" {
		return &models.Principal{ID: models.FallbackPrincipalID, Username: username}, true
	}
	return nil, false
}

type stubSessions struct {
	created   *models.Principal
	destroyed bool
	err       error
}

func (s *stubSessions) Create(w http.ResponseWriter, p *models.Principal) error {
	if s.err != nil {
		return s.err
	}
	s.created = p
	http.SetCookie(w, &http.Cookie{Name: "portfolio_session", Value: "token", Path: "/"})
	return nil
}

func (s *stubSessions) Destroy(w http.ResponseWriter) {
	s.destroyed = true
	http.SetCookie(w, &http.Cookie{Name: "portfolio_session", Value: "", Path: "/", MaxAge: -1})
}

// filePart is one file in a multipart submission.
type filePart struct {
	field, name, contentType string
	body                     []byte
}

// multipartRequest builds a POST with the given text fields and files.
func multipartRequest(t *testing.T, target string, fields url.Values, files ...filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + f.field + `"; filename="` + f.name + `"`}
		if f.contentType != "" {
			h["Content-Type"] = []string{f.contentType}
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(f.body)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// projectFields returns a valid submission that tests adjust.
func projectFields() url.Values {
	return url.Values{
		"title":            {"Atlas Rebrand"},
		"slug":             {"atlas-rebrand"},
		"shortDescription": {"A new identity for Atlas."},
		"description":      {"Full identity system."},
		"objective":        {"Unify the brand."},
		"tools":            {"Figma, Go, Figma"},
		"videos":           {"https://video.example/1\nnot a link"},
		"featured":         {"on"},
	}
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")
