// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleImage is an image attachment exclusively owned by one article.
// The row is cascade-deleted with its article; the S3 objects are removed
// by the handler on explicit deletes.
type ArticleImage struct {
	ID         uuid.UUID `json:"id"`
	ArticleID  uuid.UUID `json:"article_id"`
	S3Key      string    `json:"-"`
	ThumbS3Key *string   `json:"-"`
	Caption    string    `json:"caption"`
	UploadedAt time.Time `json:"uploaded_at"`

	// Resolved URLs, populated by handlers when storage is configured.
	URL      string `json:"url,omitempty"`
	ThumbURL string `json:"thumb_url,omitempty"`
}
