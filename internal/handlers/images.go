// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/imaging"
	"inkpress/internal/models"
	"inkpress/internal/storage"
	"inkpress/internal/store"
)

const (
	// maxUploadSize is the maximum allowed image upload size (50 MB).
	maxUploadSize = 50 << 20
)

// allowedImageTypes defines MIME types accepted for article images.
// Everything is re-encoded to WebP by libvips on the way in.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Images groups the article image handlers.
type Images struct {
	images   *store.ImageStore
	articles *store.ArticleStore
	storage  *storage.Client
}

// NewImages creates a new Images handler group. storage may be nil when
// S3 is not configured, in which case uploads are refused.
func NewImages(images *store.ImageStore, articles *store.ArticleStore, storageClient *storage.Client) *Images {
	return &Images{images: images, articles: articles, storage: storageClient}
}

// Upload attaches a multipart image to an article. The original is
// converted to a WebP display rendition plus a thumbnail, both stored in
// S3; only the metadata row lives in PostgreSQL.
func (h *Images) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeErrorBody(w, http.StatusServiceUnavailable, &errorBody{Message: "object storage is not configured"})
		return
	}

	articleID, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := h.articles.FindByID(articleID)
	if err != nil {
		writeError(w, err)
		return
	}
	if a == nil {
		writeError(w, apperr.NotFound("article"))
		return
	}

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeErrorBody(w, http.StatusRequestEntityTooLarge, &errorBody{Message: "file too large, maximum size is 50 MB"})
		return
	}

	caption := r.FormValue("caption")
	if err := validateCaption(caption); err != nil {
		writeError(w, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperr.Validation("image", "no image file provided"))
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeErrorBody(w, http.StatusRequestEntityTooLarge, &errorBody{Message: "file too large, maximum size is 50 MB"})
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		writeError(w, fmt.Errorf("read upload: %w", err))
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedImageTypes[contentType] {
		writeError(w, apperr.Validation("image", "file type "+contentType+" is not allowed"))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, fmt.Errorf("rewind upload: %w", err))
		return
	}
	original, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("read upload: %w", err))
		return
	}

	display, thumb, err := imaging.Process(original)
	if err != nil {
		writeError(w, apperr.Validation("image", "image could not be decoded"))
		return
	}

	now := time.Now()
	fileID := uuid.New().String()
	s3Key := fmt.Sprintf("articles/%d/%02d/%s.webp", now.Year(), now.Month(), fileID)
	thumbKey := fmt.Sprintf("articles/%d/%02d/%s_thumb.webp", now.Year(), now.Month(), fileID)

	ctx := r.Context()
	if err := h.storage.Upload(ctx, s3Key, display.ContentType, bytes.NewReader(display.Data), int64(len(display.Data))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", s3Key)
		writeError(w, err)
		return
	}
	if err := h.storage.Upload(ctx, thumbKey, thumb.ContentType, bytes.NewReader(thumb.Data), int64(len(thumb.Data))); err != nil {
		// The display image made it up; serve without a thumbnail rather
		// than failing the whole upload.
		slog.Warn("thumbnail upload failed", "error", err, "key", thumbKey)
		thumbKey = ""
	}

	img := &models.ArticleImage{
		ArticleID: articleID,
		S3Key:     s3Key,
		Caption:   caption,
	}
	if thumbKey != "" {
		img.ThumbS3Key = &thumbKey
	}

	created, err := h.images.Create(img)
	if err != nil {
		writeError(w, err)
		return
	}

	created.URL = h.storage.FileURL(created.S3Key)
	if created.ThumbS3Key != nil {
		created.ThumbURL = h.storage.FileURL(*created.ThumbS3Key)
	}
	writeData(w, http.StatusCreated, created)
}

// RebuildThumb regenerates an image's thumbnail from the stored display
// rendition. Covers uploads whose thumbnail upload failed (the row keeps a
// NULL thumb key) and thumbnails lost from the bucket afterwards.
func (h *Images) RebuildThumb(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeErrorBody(w, http.StatusServiceUnavailable, &errorBody{Message: "object storage is not configured"})
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	img, err := h.images.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if img == nil {
		writeError(w, apperr.NotFound("image"))
		return
	}

	ctx := r.Context()
	original, err := h.storage.Download(ctx, img.S3Key)
	if err != nil {
		slog.Error("s3 download failed", "error", err, "key", img.S3Key)
		writeError(w, err)
		return
	}

	thumb, err := imaging.Thumbnail(original)
	if err != nil {
		writeError(w, fmt.Errorf("rebuild thumbnail: %w", err))
		return
	}

	thumbKey := strings.TrimSuffix(img.S3Key, ".webp") + "_thumb.webp"
	if err := h.storage.Upload(ctx, thumbKey, thumb.ContentType, bytes.NewReader(thumb.Data), int64(len(thumb.Data))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", thumbKey)
		writeError(w, err)
		return
	}

	if err := h.images.SetThumbKey(id, &thumbKey); err != nil {
		writeError(w, err)
		return
	}

	img.ThumbS3Key = &thumbKey
	img.URL = h.storage.FileURL(img.S3Key)
	img.ThumbURL = h.storage.FileURL(thumbKey)
	writeData(w, http.StatusOK, img)
}

// Delete removes an image row and its S3 objects. The storage deletes are
// best-effort: a dangling object is preferable to a row pointing at
// nothing.
func (h *Images) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	img, err := h.images.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if img == nil {
		writeError(w, apperr.NotFound("image"))
		return
	}

	if err := h.images.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	if h.storage != nil {
		ctx := r.Context()
		if err := h.storage.Delete(ctx, img.S3Key); err != nil {
			slog.Warn("s3 delete failed", "error", err, "key", img.S3Key)
		}
		if img.ThumbS3Key != nil {
			if err := h.storage.Delete(ctx, *img.ThumbS3Key); err != nil {
				slog.Warn("s3 thumb delete failed", "error", err, "key", *img.ThumbS3Key)
			}
		}
	}

	writeData(w, http.StatusOK, map[string]string{"deleted": id.String()})
}
