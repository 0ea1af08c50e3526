// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging converts uploaded article images into WebP using libvips.
// Each upload produces two renditions: a display image capped at a
// reasonable web width, and a small thumbnail for listings. Sources
// narrower than the target are never upscaled.
package imaging

import (
	"fmt"
	"log/slog"

	"github.com/davidbyttow/govips/v2/vips"
)

const (
	// DisplayWidth is the maximum width of the full-size rendition.
	DisplayWidth = 1600

	// ThumbWidth is the width of the listing thumbnail.
	ThumbWidth = 400

	displayQuality = 80
	thumbQuality   = 75
)

// Rendition holds one WebP-encoded output ready for upload.
type Rendition struct {
	Width       int
	Height      int
	Data        []byte
	ContentType string // Always "image/webp"
}

// Startup initialises the libvips library. Call once at application start.
// concurrency controls the number of libvips worker threads (0 = auto).
func Startup(concurrency int) {
	cfg := &vips.Config{
		ConcurrencyLevel: concurrency,
		MaxCacheSize:     100,
		MaxCacheMem:      50 * 1024 * 1024, // 50 MB
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(cfg)
	slog.Info("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources. Call at application shutdown.
func Shutdown() {
	vips.Shutdown()
}

// Process generates the display and thumbnail renditions of an uploaded
// image. Both are auto-rotated from EXIF orientation and stripped of
// metadata before encoding.
func Process(original []byte) (display, thumb Rendition, err error) {
	// Probe original dimensions without fully decoding.
	probe, err := vips.NewImageFromBuffer(original)
	if err != nil {
		return display, thumb, fmt.Errorf("imaging: probe failed: %w", err)
	}
	origWidth := probe.Width()
	probe.Close()

	display, err = render(original, origWidth, DisplayWidth, displayQuality)
	if err != nil {
		return display, thumb, fmt.Errorf("imaging: display: %w", err)
	}

	thumb, err = render(original, origWidth, ThumbWidth, thumbQuality)
	if err != nil {
		return display, thumb, fmt.Errorf("imaging: thumb: %w", err)
	}

	return display, thumb, nil
}

// Thumbnail produces just the listing rendition, for rebuilding a
// thumbnail that failed or was lost after the original upload.
func Thumbnail(original []byte) (Rendition, error) {
	probe, err := vips.NewImageFromBuffer(original)
	if err != nil {
		return Rendition{}, fmt.Errorf("imaging: probe failed: %w", err)
	}
	origWidth := probe.Width()
	probe.Close()

	thumb, err := render(original, origWidth, ThumbWidth, thumbQuality)
	if err != nil {
		return Rendition{}, fmt.Errorf("imaging: thumb: %w", err)
	}
	return thumb, nil
}

// render produces a single WebP rendition at most targetWidth wide.
func render(original []byte, origWidth, targetWidth, quality int) (Rendition, error) {
	// Cap at original width to avoid upscaling.
	if origWidth < targetWidth {
		targetWidth = origWidth
	}

	img, err := vips.NewThumbnailFromBuffer(original, targetWidth, 0, vips.InterestingNone)
	if err != nil {
		return Rendition{}, fmt.Errorf("thumbnail %dpx: %w", targetWidth, err)
	}

	// Auto-rotate based on EXIF orientation, then strip metadata.
	if err := img.AutoRotate(); err != nil {
		img.Close()
		return Rendition{}, fmt.Errorf("autorotate: %w", err)
	}

	params := vips.NewWebpExportParams()
	params.Quality = quality
	params.Lossless = false
	params.StripMetadata = true

	buf, meta, err := img.ExportWebp(params)
	img.Close()
	if err != nil {
		return Rendition{}, fmt.Errorf("export: %w", err)
	}

	return Rendition{
		Width:       meta.Width,
		Height:      meta.Height,
		Data:        buf,
		ContentType: "image/webp",
	}, nil
}
