// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package images

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Storage modes accepted by IMAGE_STORAGE.
const (
	ModeInline = "inline"
	ModeDisk   = "disk"
)

// InlineSink keeps the data URL itself as the image URL.
type InlineSink struct{}

func (InlineSink) Put(_ context.Context, _ string, img Image) (string, error) {
	return img.Raw, nil
}

// DiskSink writes image bytes under a root directory and serves them from
// baseURL.
type DiskSink struct {
	fs      afero.Fs
	baseURL string
}

// NewDiskSink roots fs at dir. Pass afero.NewOsFs() in production and
// afero.NewMemMapFs() in tests.
func NewDiskSink(fs afero.Fs, dir, baseURL string) *DiskSink {
	if baseURL == "" {
		baseURL = "/uploads/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &DiskSink{fs: afero.NewBasePathFs(fs, dir), baseURL: baseURL}
}

func (d *DiskSink) Put(_ context.Context, key string, img Image) (string, error) {
	if err := d.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := afero.WriteFile(d.fs, key, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return d.baseURL + key, nil
}

// FileServer serves stored images read-only. Directory listings are not
// served.
func (d *DiskSink) FileServer() http.Handler {
	files := http.FileServer(afero.NewHttpFs(afero.NewReadOnlyFs(d.fs)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// NewSink builds the sink for a storage mode. Disk mode without a directory
// yields a nil sink, which Ingestor reports as ErrNotConfigured once images
// are actually submitted.
func NewSink(mode string, fs afero.Fs, dir, baseURL string) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeInline:
		return InlineSink{}, nil
	case ModeDisk:
		if dir == "" {
			return nil, nil
		}
		return NewDiskSink(fs, dir, baseURL), nil
	default:
		return nil, fmt.Errorf("unsupported image storage %q", mode)
	}
}
