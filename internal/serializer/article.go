// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package serializer

import (
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// ArticleSummary is the listing projection: enough to render a card or a
// related-articles strip, nothing more.
type ArticleSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Views     int       `json:"views"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleDetail is the full single-article projection. Category is
// rendered as a detail node so the response carries both the subcategory
// and its root parent; related articles stay summaries to keep the
// payload from recursing into full articles.
type ArticleDetail struct {
	ID              uuid.UUID            `json:"id"`
	Title           string               `json:"title"`
	Slug            string               `json:"slug"`
	Content         string               `json:"content"`
	ContentHTML     string               `json:"content_html"`
	Excerpt         string               `json:"excerpt"`
	Category        *CategoryDetail      `json:"category"`
	Tags            []models.Tag         `json:"tags"`
	Status          models.ArticleStatus `json:"status"`
	IsPublished     bool                 `json:"is_published"`
	Views           int                  `json:"views"`
	Likes           int                  `json:"likes"`
	ReadingTime     int                  `json:"reading_time"`
	SEOTitle        *string              `json:"seo_title,omitempty"`
	MetaDescription *string              `json:"meta_description,omitempty"`
	IsFeatured      bool                 `json:"is_featured"`
	IsRecommended   bool                 `json:"is_recommended"`
	CommentCount    int                  `json:"comment_count"`
	Related         []ArticleSummary     `json:"related_articles"`
	Images          []models.ArticleImage `json:"images"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ArticleCard projects an article into its summary form.
func ArticleCard(a *models.Article) ArticleSummary {
	return ArticleSummary{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Excerpt:   a.Excerpt,
		Views:     a.Views,
		CreatedAt: a.CreatedAt,
	}
}

// ArticleCards projects a slice of articles into summaries, preserving order.
func ArticleCards(articles []models.Article) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(articles))
	for i := range articles {
		out = append(out, ArticleCard(&articles[i]))
	}
	return out
}

// ArticleFull assembles the detail projection. category and parent may be
// nil for uncategorized articles; tags, related, and images may be empty
// but are always arrays in the output.
func ArticleFull(a *models.Article, category, parent *models.Category, tags []models.Tag, related []models.Article, images []models.ArticleImage) ArticleDetail {
	d := ArticleDetail{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		Content:         a.Content,
		Excerpt:         a.Excerpt,
		Tags:            tags,
		Status:          a.Status,
		IsPublished:     a.IsPublished,
		Views:           a.Views,
		Likes:           a.Likes,
		ReadingTime:     a.ReadingTime,
		SEOTitle:        a.SEOTitle,
		MetaDescription: a.MetaDescription,
		IsFeatured:      a.IsFeatured,
		IsRecommended:   a.IsRecommended,
		Related:         ArticleCards(related),
		Images:          images,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if d.Tags == nil {
		d.Tags = []models.Tag{}
	}
	if d.Images == nil {
		d.Images = []models.ArticleImage{}
	}
	if category != nil {
		cd := Detail(category, parent, nil, 0)
		d.Category = &cd
	}
	return d
}
