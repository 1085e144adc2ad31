// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Disk writes uploads into a local directory served under urlPrefix.
type Disk struct {
	dir       string
	urlPrefix string
}

// NewDisk creates a disk backend. urlPrefix is the public path the
// directory is served from, e.g. "/uploads".
func NewDisk(dir, urlPrefix string) *Disk {
	return &Disk{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}
}

// Dir returns the directory uploads are written to.
func (d *Disk) Dir() string {
	return d.dir
}

// Put writes body to a new file named name. It never overwrites an
// existing file.
func (d *Disk) Put(_ context.Context, name, _ string, body io.Reader, _ int64) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(d.dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return d.urlPrefix + "/" + filepath.Base(name), nil
}
