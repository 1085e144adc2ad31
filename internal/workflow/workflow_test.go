// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/content"
	"portfolio/internal/models"
	"portfolio/internal/upload"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	projects  map[uuid.UUID]*models.Project
	creates   int
	updates   int
	deletes   int
	createErr error
	findErr   error
}

func newFakeRepo(seed ...*models.Project) *fakeRepo {
	r := &fakeRepo{projects: make(map[uuid.UUID]*models.Project)}
	for _, p := range seed {
		r.projects[p.ID] = p
	}
	return r
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) SlugTaken(_ context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	for id, p := range r.projects {
		if p.Slug == slug && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	cp := *p
	cp.ID = uuid.New()
	r.projects[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, p *models.Project) error {
	r.updates++
	if _, ok := r.projects[p.ID]; !ok {
		return models.NewError(models.ErrNotFound, "Project not found.")
	}
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deletes++
	if _, ok := r.projects[id]; !ok {
		return models.NewError(models.ErrNotFound, "Project not found.")
	}
	delete(r.projects, id)
	return nil
}

// fakeUploader hands out sequential references and can fail on the nth call.
type fakeUploader struct {
	saved  []string
	failOn int // 1-based call number, 0 never fails
	calls  int
}

func (u *fakeUploader) Save(_ context.Context, f upload.File) (string, error) {
	u.calls++
	if u.failOn == u.calls {
		return "", errors.New("bucket unreachable")
	}
	ref := fmt.Sprintf("/uploads/%d-%s", u.calls, f.Name)
	u.saved = append(u.saved, ref)
	return ref, nil
}

type revalidation struct {
	action string
	actor  string
	paths  []string
}

type fakeRevalidator struct {
	calls []revalidation
}

func (r *fakeRevalidator) Revalidate(_ context.Context, action, actor string, paths ...string) {
	r.calls = append(r.calls, revalidation{action: action, actor: actor, paths: paths})
}

var admin = &models.Principal{ID: uuid.NewString(), Username: "owner"}

func img(name string) upload.File {
	return upload.File{Name: name, ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

func validInput() Input {
	cover := img("cover.png")
	return Input{
		Title:            "Harbor Lights",
		Slug:             "harbor-lights",
		ShortDescription: "A lighting study.",
		Description:      "Long form text.",
		Tools:            []string{"Blender", "Figma"},
		Featured:         true,
		Cover:            &cover,
		Gallery:          []upload.File{img("a.png"), img("b.png")},
	}
}

func setup(seed ...*models.Project) (*Service, *fakeRepo, *fakeUploader, *fakeRevalidator) {
	repo := newFakeRepo(seed...)
	up := &fakeUploader{}
	rv := &fakeRevalidator{}
	return New(repo, up, rv), repo, up, rv
}

func existingProject() *models.Project {
	return &models.Project{
		ID:               uuid.New(),
		Title:            "Old",
		Slug:             "old-slug",
		ShortDescription: "old",
		Content:          "old body",
		CoverImage:       "/uploads/old-cover.png",
		Gallery:          models.StringList{"/uploads/g1.png", "/uploads/g2.png", "/uploads/g3.png"},
		Tools:            models.StringList{"Maya"},
	}
}

func TestCreate(t *testing.T) {
	svc, repo, up, rv := setup()

	p, err := svc.Create(context.Background(), admin, validInput())
	require.NoError(t, err)

	assert.Equal(t, "harbor-lights", p.Slug)
	assert.Equal(t, "/uploads/3-cover.png", p.CoverImage, "gallery uploads precede the cover")
	assert.Equal(t, models.StringList{"/uploads/1-a.png", "/uploads/2-b.png"}, p.Gallery)
	assert.Equal(t, models.StringList{"Blender", "Figma"}, p.Tools)
	assert.True(t, p.Featured)
	assert.Equal(t, "Long form text.", content.Extract(p.Content).Description)
	assert.Len(t, repo.projects, 1)
	assert.Len(t, up.saved, 3)

	require.Len(t, rv.calls, 1)
	assert.Equal(t, revalidation{
		action: ActionCreate,
		actor:  "owner",
		paths:  []string{"/", "/portfolio", "/projects/harbor-lights", "/admin"},
	}, rv.calls[0])
}

func TestCreateEncodesSections(t *testing.T) {
	svc, _, _, _ := setup()
	in := validInput()
	in.Objective = "Win the pitch."
	in.Videos = []string{"https://video.example.com/1"}

	p, err := svc.Create(context.Background(), admin, in)
	require.NoError(t, err)

	got := content.Extract(p.Content)
	assert.Equal(t, "Win the pitch.", got.Objective)
	assert.Equal(t, []string{"https://video.example.com/1"}, got.Videos)
}

func TestCreateRequiresSession(t *testing.T) {
	svc, repo, up, rv := setup()

	_, err := svc.Create(context.Background(), nil, validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.Zero(t, up.calls)
	assert.Zero(t, repo.creates)
	assert.Empty(t, rv.calls)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		wantMsg string
	}{
		{"missing title", func(in *Input) { in.Title = "" }, "Missing required fields."},
		{"missing slug", func(in *Input) { in.Slug = "" }, "Missing required fields."},
		{"missing short description", func(in *Input) { in.ShortDescription = "" }, "Missing required fields."},
		{"missing description", func(in *Input) { in.Description = "" }, "Missing required fields."},
		{"uppercase slug", func(in *Input) { in.Slug = "Harbor" }, "Invalid slug."},
		{"double hyphen", func(in *Input) { in.Slug = "a--b" }, "Invalid slug."},
		{"trailing hyphen", func(in *Input) { in.Slug = "a-" }, "Invalid slug."},
		{"title too long", func(in *Input) { in.Title = strings.Repeat("x", 201) }, "Title is too long (max 200 characters)."},
		{"slug too long", func(in *Input) { in.Slug = strings.Repeat("a", 121) }, "Slug is too long (max 120 characters)."},
		{"too many tools", func(in *Input) { in.Tools = make([]string, 51) }, "Tools has too many entries (max 50)."},
		{"too many videos", func(in *Input) { in.Videos = make([]string, 21) }, "Videos has too many entries (max 20)."},
		{"tool name too long", func(in *Input) { in.Tools = []string{strings.Repeat("t", 101)} }, "Tools[0] is too long (max 100 characters)."},
		{"missing cover", func(in *Input) { in.Cover = nil }, "Cover image is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, up, rv := setup()
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), admin, in)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Equal(t, tt.wantMsg, models.Message(err))
			assert.Zero(t, up.calls, "no upload before validation passes")
			assert.Zero(t, repo.creates)
			assert.Empty(t, rv.calls)
		})
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	other := existingProject()
	other.Slug = "harbor-lights"
	svc, repo, up, rv := setup(other)

	_, err := svc.Create(context.Background(), admin, validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, "Slug already exists.", models.Message(err))
	assert.Zero(t, up.calls)
	assert.Zero(t, repo.creates)
	assert.Empty(t, rv.calls)
}

func TestCreateStopsAtFirstFailedUpload(t *testing.T) {
	svc, repo, up, rv := setup()
	up.failOn = 2

	_, err := svc.Create(context.Background(), admin, validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.Equal(t, "Failed to store image.", models.Message(err))
	assert.Equal(t, 2, up.calls, "cover is not attempted after a gallery failure")
	assert.Zero(t, repo.creates)
	assert.Empty(t, rv.calls)
}

func TestCreateStorageFailure(t *testing.T) {
	svc, repo, _, rv := setup()
	repo.createErr = errors.New("connection reset")

	_, err := svc.Create(context.Background(), admin, validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.Equal(t, "Failed to create project.", models.Message(err))
	assert.Empty(t, rv.calls, "no revalidation without a successful write")
}

func TestCreateConflictFromRepository(t *testing.T) {
	svc, repo, _, _ := setup()
	repo.createErr = models.NewError(models.ErrConflict, "Slug already exists.")

	_, err := svc.Create(context.Background(), admin, validInput())
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUpdateKeepsCoverWhenNoneUploaded(t *testing.T) {
	existing := existingProject()
	svc, repo, up, rv := setup(existing)

	in := validInput()
	in.ID = existing.ID.String()
	in.Slug = existing.Slug
	in.Cover = nil
	in.Gallery = nil

	p, err := svc.Update(context.Background(), admin, in)
	require.NoError(t, err)

	assert.Equal(t, "/uploads/old-cover.png", p.CoverImage)
	assert.Equal(t, existing.Gallery, p.Gallery)
	assert.Zero(t, up.calls)
	assert.Equal(t, "Harbor Lights", repo.projects[existing.ID].Title)

	require.Len(t, rv.calls, 1)
	assert.Equal(t, ActionUpdate, rv.calls[0].action)
	assert.Equal(t, []string{"/", "/portfolio", "/projects/old-slug", "/admin"}, rv.calls[0].paths)
}

func TestUpdateGalleryMerge(t *testing.T) {
	existing := existingProject()
	svc, _, _, _ := setup(existing)

	in := validInput()
	in.ID = existing.ID.String()
	in.Cover = nil
	in.Gallery = []upload.File{img("new.png")}
	in.RemoveGallery = []string{"/uploads/g2.png", "/uploads/not-present.png"}

	p, err := svc.Update(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"/uploads/g1.png", "/uploads/g3.png", "/uploads/1-new.png"}, p.Gallery)
}

func TestUpdateReplacesCover(t *testing.T) {
	existing := existingProject()
	svc, _, _, _ := setup(existing)

	in := validInput()
	in.ID = existing.ID.String()
	in.Gallery = nil

	p, err := svc.Update(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1-cover.png", p.CoverImage)
}

func TestUpdateSlugChange(t *testing.T) {
	existing := existingProject()
	other := existingProject()
	other.Slug = "taken"
	svc, repo, up, rv := setup(existing, other)

	in := validInput()
	in.ID = existing.ID.String()
	in.Slug = "taken"

	_, err := svc.Update(context.Background(), admin, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Zero(t, up.calls)
	assert.Zero(t, repo.updates)
	assert.Empty(t, rv.calls)

	in.Slug = "new-slug"
	_, err = svc.Update(context.Background(), admin, in)
	require.NoError(t, err)
	require.Len(t, rv.calls, 1)
	assert.Equal(t,
		[]string{"/", "/portfolio", "/projects/old-slug", "/projects/new-slug", "/admin"},
		rv.calls[0].paths)
}

func TestUpdateErrors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantKind error
		wantMsg  string
	}{
		{"missing id", "", models.ErrValidation, "Missing project id."},
		{"malformed id", "not-a-uuid", models.ErrNotFound, "Project not found."},
		{"unknown id", uuid.NewString(), models.ErrNotFound, "Project not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, up, rv := setup(existingProject())
			in := validInput()
			in.ID = tt.id

			_, err := svc.Update(context.Background(), admin, in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantMsg, models.Message(err))
			assert.Zero(t, up.calls)
			assert.Zero(t, repo.updates)
			assert.Empty(t, rv.calls)
		})
	}
}

func TestUpdateLookupFailure(t *testing.T) {
	existing := existingProject()
	svc, repo, _, _ := setup(existing)
	repo.findErr = errors.New("timeout")

	in := validInput()
	in.ID = existing.ID.String()
	_, err := svc.Update(context.Background(), admin, in)
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.Equal(t, "Failed to update project.", models.Message(err))
}

func TestUpdateRequiresSession(t *testing.T) {
	existing := existingProject()
	svc, repo, _, _ := setup(existing)

	in := validInput()
	in.ID = existing.ID.String()
	_, err := svc.Update(context.Background(), nil, in)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.Zero(t, repo.updates)
}

func TestDelete(t *testing.T) {
	existing := existingProject()
	svc, repo, _, rv := setup(existing)

	require.NoError(t, svc.Delete(context.Background(), admin, existing.ID.String()))
	assert.Empty(t, repo.projects)
	require.Len(t, rv.calls, 1)
	assert.Equal(t, revalidation{
		action: ActionDelete,
		actor:  "owner",
		paths:  []string{"/", "/portfolio", "/projects/old-slug", "/admin"},
	}, rv.calls[0])
}

func TestDeleteErrors(t *testing.T) {
	svc, repo, _, rv := setup(existingProject())

	err := svc.Delete(context.Background(), admin, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "Missing project id.", models.Message(err))

	err = svc.Delete(context.Background(), admin, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = svc.Delete(context.Background(), nil, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	assert.Zero(t, repo.deletes)
	assert.Empty(t, rv.calls)
}

func TestNilRevalidator(t *testing.T) {
	svc := New(newFakeRepo(), &fakeUploader{}, nil)
	_, err := svc.Create(context.Background(), admin, validInput())
	assert.NoError(t, err)
}

func TestKeep(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, keep([]string{"a", "b", "c"}, []string{"b"}))
	assert.Equal(t, []string{}, keep(nil, []string{"b"}))
	assert.Equal(t, []string{"a"}, keep([]string{"a"}, nil))
}
