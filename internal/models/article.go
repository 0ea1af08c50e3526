// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the publishing state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Valid reports whether the status is one of the known states.
func (s ArticleStatus) Valid() bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished
}

// Article is a published or draft piece of content. An article may attach
// to a subcategory (never a root category), carries a replace-on-write set
// of tags, and a non-symmetric set of related articles: A relating to B
// does not make B relate to A.
type Article struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Content         string        `json:"content"`
	Excerpt         string        `json:"excerpt"`
	CategoryID      *uuid.UUID    `json:"category_id"`
	AuthorID        uuid.UUID     `json:"author_id"`
	Status          ArticleStatus `json:"status"`
	IsPublished     bool          `json:"is_published"`
	Views           int           `json:"views"`
	Likes           int           `json:"likes"`
	ReadingTime     int           `json:"reading_time"`
	SEOTitle        *string       `json:"seo_title,omitempty"`
	MetaDescription *string       `json:"meta_description,omitempty"`
	IsFeatured      bool          `json:"is_featured"`
	IsRecommended   bool          `json:"is_recommended"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Virtual fields populated by store methods.
	Category *Category `json:"category,omitempty"`
	Tags     []Tag     `json:"tags,omitempty"`
}
