// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// ObjectStore is the subset of storage.Client the blob backend needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// Blob stores uploads in a remote object store and returns absolute URLs.
type Blob struct {
	objects ObjectStore
	prefix  string
}

// NewBlob creates a blob backend writing keys under prefix (e.g. "uploads").
func NewBlob(objects ObjectStore, prefix string) *Blob {
	return &Blob{objects: objects, prefix: prefix}
}

// Put uploads body under a key derived from name and returns its public URL.
// Non-seekable bodies are buffered first so the request can be signed.
func (b *Blob) Put(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error) {
	if _, ok := body.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("buffer upload: %w", err)
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}

	key := name
	if b.prefix != "" {
		key = b.prefix + "/" + name
	}
	if err := b.objects.Upload(ctx, key, contentType, body, size); err != nil {
		return "", err
	}
	return b.objects.FileURL(key), nil
}
