// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload validates image uploads and persists them under fresh
// random names, either to a local directory or to a remote blob service.
// The bytes are never decoded or transcoded.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// DefaultMaxBytes is the upload size cap (8 MiB).
const DefaultMaxBytes = 8 << 20

// mimeExtensions maps accepted image MIME types to the extension used for
// the stored file.
var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".avif": true,
	".heic": true,
	".heif": true,
}

// File is one uploaded file as received from a form.
type File struct {
	Name        string // original filename, may be empty
	ContentType string // declared MIME type, may be empty
	Size        int64
	Body        io.Reader
}

// Backend persists a validated object under name and returns its display
// reference.
type Backend interface {
	Put(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error)
}

// Store validates uploads and hands them to a Backend.
type Store struct {
	backend  Backend
	maxBytes int64
	newName  func() string
}

// NewStore creates a Store that rejects files larger than maxBytes. A
// non-positive maxBytes uses DefaultMaxBytes.
func NewStore(backend Backend, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{
		backend:  backend,
		maxBytes: maxBytes,
		newName:  func() string { return uuid.NewString() },
	}
}

// Save validates f and persists it under a generated name. The returned
// reference can be used directly as an image URL.
func (s *Store) Save(ctx context.Context, f File) (string, error) {
	ext, err := s.validate(f)
	if err != nil {
		return "", err
	}

	name := s.newName() + ext
	contentType := storedType(f.ContentType, ext)

	ref, err := s.backend.Put(ctx, name, contentType, io.LimitReader(f.Body, s.maxBytes+1), f.Size)
	if err != nil {
		slog.Error("upload failed", "name", name, "error", err)
		return "", models.WrapError(models.ErrStorage, "Failed to store image.", err)
	}

	slog.Info("upload stored", "name", name, "size", f.Size)
	return ref, nil
}

// validate returns the extension f will be stored with, or an
// ErrUnsupportedMedia error.
func (s *Store) validate(f File) (string, error) {
	if f.Size > s.maxBytes {
		return "", models.NewError(models.ErrUnsupportedMedia,
			fmt.Sprintf("Image is too large (max %d KB).", s.maxBytes>>10))
	}

	mime := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime != "" && mime != "application/octet-stream" && !strings.HasPrefix(mime, "image/") {
		return "", models.NewError(models.ErrUnsupportedMedia, "Only image uploads are allowed.")
	}

	ext := ResolveExtension(f.Name, mime)
	if ext == "" {
		return "", models.NewError(models.ErrUnsupportedMedia, "Unsupported image type.")
	}
	return ext, nil
}

// ResolveExtension picks the stored extension: the filename's own extension
// when it is allowed, otherwise the one implied by the MIME type. It returns
// "" when neither resolves.
func ResolveExtension(filename, mime string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if allowedExtensions[ext] {
		return ext
	}
	return mimeExtensions[strings.ToLower(mime)]
}

// storedType is the Content-Type recorded with the object. An untyped
// upload takes the type implied by its extension.
func storedType(declared, ext string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	for mime, e := range mimeExtensions {
		if e == ext {
			return mime
		}
	}
	if ext == ".jpeg" {
		return "image/jpeg"
	}
	return "application/octet-stream"
}
