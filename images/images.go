// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/danielhkuo/petition-desk/models"
)

// ErrNotConfigured is returned when images must be written to disk but no
// upload directory was configured.
var ErrNotConfigured = errors.New("image upload directory is not configured")

var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// Image is a decoded data URL.
type Image struct {
	Raw  string
	Mime string
	Data []byte
}

// ParseDataURL decodes a base64 data URL. The second result is false when s
// is not a data URL or its payload is not valid base64.
func ParseDataURL(s string) (Image, bool) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return Image{}, false
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		// Some encoders drop the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(m[2], "="))
		if err != nil {
			return Image{}, false
		}
	}
	return Image{Raw: s, Mime: m[1], Data: data}, true
}

// Extension maps a mime type to a file extension. When the declared type is
// not one of the known image types the payload is sniffed.
func Extension(mime string, data []byte) string {
	if ext := extFromMime(mime); ext != "bin" {
		return ext
	}
	if len(data) == 0 {
		return "bin"
	}
	return extFromMime(mimetype.Detect(data).String())
}

func extFromMime(mime string) string {
	mime = strings.ToLower(mime)
	switch {
	case strings.Contains(mime, "jpeg"):
		return "jpg"
	case strings.Contains(mime, "png"):
		return "png"
	case strings.Contains(mime, "webp"):
		return "webp"
	case strings.Contains(mime, "gif"):
		return "gif"
	default:
		return "bin"
	}
}

// Sink persists a single image and returns the URL to record for it.
type Sink interface {
	Put(ctx context.Context, key string, img Image) (string, error)
}

// Ingestor turns submitted data URLs into stored image URLs.
type Ingestor struct {
	sink Sink
	now  func() time.Time
}

// NewIngestor returns an Ingestor writing to sink. A nil sink means image
// storage is required but not configured.
func NewIngestor(sink Sink) *Ingestor {
	return &Ingestor{sink: sink, now: time.Now}
}

// WithClock replaces the time source used in storage keys, for tests.
func (in *Ingestor) WithClock(now func() time.Time) *Ingestor {
	in.now = now
	return in
}

// Ingest stores up to the first MaxImagesPerBatch items for a petition.
// Entries that are not data URLs are skipped. Images already stored are not
// undone when a later one fails; the URLs stored so far are returned with
// the error.
func (in *Ingestor) Ingest(ctx context.Context, code, kind string, items []string) ([]string, error) {
	if len(items) > models.MaxImagesPerBatch {
		items = items[:models.MaxImagesPerBatch]
	}
	if len(items) == 0 {
		return []string{}, nil
	}
	if in.sink == nil {
		return nil, ErrNotConfigured
	}

	urls := make([]string, 0, len(items))
	var total uint64
	stamp := in.now().UnixMilli()
	for i, item := range items {
		img, ok := ParseDataURL(item)
		if !ok {
			continue
		}
		key := fmt.Sprintf("petitions/%s/%s-%d-%d.%s", code, kind, stamp, i, Extension(img.Mime, img.Data))
		url, err := in.sink.Put(ctx, key, img)
		if err != nil {
			return urls, fmt.Errorf("failed to store image %d: %w", i, err)
		}
		urls = append(urls, url)
		total += uint64(len(img.Data))
	}

	if len(urls) > 0 {
		slog.Info("images stored",
			"code", code,
			"kind", kind,
			"count", len(urls),
			"size", humanize.Bytes(total),
		)
	}
	return urls, nil
}
