// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// ImageStore manages article image attachments. Rows are owned by exactly
// one article and cascade-deleted with it; the handler is responsible for
// removing the S3 objects on explicit deletes.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore returns a new ImageStore.
func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

const imageColumns = `id, article_id, s3_key, thumb_s3_key, caption, uploaded_at`

func scanImage(scanner interface{ Scan(...any) error }) (*models.ArticleImage, error) {
	var img models.ArticleImage
	err := scanner.Scan(&img.ID, &img.ArticleID, &img.S3Key, &img.ThumbS3Key, &img.Caption, &img.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// ListByArticle returns an article's images in upload order.
func (s *ImageStore) ListByArticle(articleID uuid.UUID) ([]models.ArticleImage, error) {
	rows, err := s.db.Query(`SELECT `+imageColumns+` FROM article_images WHERE article_id = $1 ORDER BY uploaded_at, id`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list article images: %w", err)
	}
	defer rows.Close()

	var items []models.ArticleImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article image: %w", err)
		}
		items = append(items, *img)
	}
	return items, rows.Err()
}

// FindByID retrieves an image by ID. Returns nil if not found.
func (s *ImageStore) FindByID(id uuid.UUID) (*models.ArticleImage, error) {
	row := s.db.QueryRow(`SELECT `+imageColumns+` FROM article_images WHERE id = $1`, id)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article image: %w", err)
	}
	return img, nil
}

// Create inserts a new image row and returns it.
func (s *ImageStore) Create(img *models.ArticleImage) (*models.ArticleImage, error) {
	row := s.db.QueryRow(`
		INSERT INTO article_images (article_id, s3_key, thumb_s3_key, caption)
		VALUES ($1, $2, $3, $4)
		RETURNING `+imageColumns,
		img.ArticleID, img.S3Key, img.ThumbS3Key, img.Caption,
	)
	result, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("create article image: %w", err)
	}
	return result, nil
}

// SetThumbKey updates an image's thumbnail object key.
func (s *ImageStore) SetThumbKey(id uuid.UUID, key *string) error {
	_, err := s.db.Exec(`UPDATE article_images SET thumb_s3_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("set image thumb key: %w", err)
	}
	return nil
}

// Delete removes an image row.
func (s *ImageStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM article_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article image: %w", err)
	}
	return nil
}
