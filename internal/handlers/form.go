// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"portfolio/internal/content"
	"portfolio/internal/models"
	"portfolio/internal/render"
	"portfolio/internal/upload"
	"portfolio/internal/workflow"
)

// multipartMemory is how much of a multipart body is kept in memory; the
// rest spills to temporary files.
const multipartMemory = 8 << 20

// parseProjectForm reads a create or update submission into a workflow
// input. Text fields are trimmed, tools are split on commas, videos keep
// only http(s) lines, and empty file parts count as absent. The returned
// cleanup closes opened files and removes temporary ones; it is never nil.
func parseProjectForm(r *http.Request) (workflow.Input, func(), error) {
	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return workflow.Input{}, cleanup, fmt.Errorf("parse project form: %w", err)
	}

	field := func(name string) string {
		return strings.TrimSpace(r.FormValue(name))
	}

	in := workflow.Input{
		ID:               field("id"),
		Title:            field("title"),
		Slug:             field("slug"),
		ShortDescription: field("shortDescription"),
		Description:      field("description"),
		Date:             field("date"),
		ExternalLink:     field("externalLink"),
		Videos:           content.ParseLinks(r.FormValue("videos")),
		Objective:        field("objective"),
		Process:          field("process"),
		Results:          field("results"),
		Lessons:          field("lessons"),
		Tools:            splitTools(r.FormValue("tools")),
		Featured:         r.FormValue("featured") == "on",
		RemoveGallery:    nonEmpty(r.Form["removeGallery"]),
	}

	if r.MultipartForm == nil {
		return in, cleanup, nil
	}

	open := func(fh *multipart.FileHeader) (upload.File, error) {
		f, err := fh.Open()
		if err != nil {
			return upload.File{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		return upload.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}, nil
	}

	for _, fh := range r.MultipartForm.File["coverImage"] {
		if !attached(fh) {
			continue
		}
		f, err := open(fh)
		if err != nil {
			return in, cleanup, err
		}
		in.Cover = &f
		break
	}
	for _, fh := range r.MultipartForm.File["gallery"] {
		if !attached(fh) {
			continue
		}
		f, err := open(fh)
		if err != nil {
			return in, cleanup, err
		}
		in.Gallery = append(in.Gallery, f)
	}

	return in, cleanup, nil
}

// attached reports whether a file part carries an actual file. Browsers
// send an empty part for untouched file inputs, and a named part with no
// bytes is no more usable than that.
func attached(fh *multipart.FileHeader) bool {
	return fh.Size > 0
}

// splitTools splits a comma-separated list, trimming entries and dropping
// empty ones and repeats. The first occurrence wins.
func splitTools(raw string) []string {
	var tools []string
	seen := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tools = append(tools, t)
	}
	return tools
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// formParseError turns a body read failure into a user-facing error.
func formParseError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return models.WrapError(models.ErrValidation, "The submission is too large.", err)
	}
	return models.WrapError(models.ErrValidation, "The submission could not be read.", err)
}

// formFromProject prefills the editor from a stored project.
func formFromProject(p *models.Project) render.ProjectForm {
	s := content.Extract(p.Content)
	return render.ProjectForm{
		ID:               p.ID.String(),
		Title:            p.Title,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription,
		Description:      s.Description,
		Date:             s.Date,
		ExternalLink:     s.ExternalLink,
		Videos:           strings.Join(s.Videos, "\n"),
		Objective:        s.Objective,
		Process:          s.Process,
		Results:          s.Results,
		Lessons:          s.Lessons,
		Tools:            strings.Join(p.Tools, ", "),
		Featured:         p.Featured,
		CoverImage:       p.CoverImage,
		Gallery:          p.Gallery,
	}
}

// formFromInput echoes a rejected submission back into the editor. Files
// cannot be echoed and must be attached again.
func formFromInput(in workflow.Input) render.ProjectForm {
	return render.ProjectForm{
		ID:               in.ID,
		Title:            in.Title,
		Slug:             in.Slug,
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		Date:             in.Date,
		ExternalLink:     in.ExternalLink,
		Videos:           strings.Join(in.Videos, "\n"),
		Objective:        in.Objective,
		Process:          in.Process,
		Results:          in.Results,
		Lessons:          in.Lessons,
		Tools:            strings.Join(in.Tools, ", "),
		Featured:         in.Featured,
	}
}
