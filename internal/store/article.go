// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// ArticleStore handles all article-related database operations, including
// the tag and related-article association sets.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore returns a new ArticleStore.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleColumns = `id, title, slug, content, excerpt, category_id, author_id,
	status, is_published, views, likes, reading_time, seo_title,
	meta_description, is_featured, is_recommended, created_at, updated_at`

func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.CategoryID,
		&a.AuthorID, &a.Status, &a.IsPublished, &a.Views, &a.Likes,
		&a.ReadingTime, &a.SEOTitle, &a.MetaDescription, &a.IsFeatured,
		&a.IsRecommended, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectArticles(rows *sql.Rows) ([]models.Article, error) {
	defer rows.Close()
	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Filter narrows article listings. Zero values mean "no constraint".
type Filter struct {
	CategoryID    *uuid.UUID
	TagID         *uuid.UUID
	Status        models.ArticleStatus
	PublishedOnly bool
	Search        string // matched against title, content, excerpt
	OrderBy       string // "created_at" (default) or "updated_at"
	Limit         int
}

// List returns articles matching the filter, newest first.
func (s *ArticleStore) List(f Filter) ([]models.Article, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.CategoryID != nil {
		conds = append(conds, "a.category_id = "+arg(*f.CategoryID))
	}
	if f.TagID != nil {
		conds = append(conds, "a.id IN (SELECT article_id FROM article_tags WHERE tag_id = "+arg(*f.TagID)+")")
	}
	if f.Status != "" {
		conds = append(conds, "a.status = "+arg(f.Status))
	}
	if f.PublishedOnly {
		conds = append(conds, "a.is_published = true")
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, "(a.title ILIKE "+p+" OR a.content ILIKE "+p+" OR a.excerpt ILIKE "+p+")")
	}

	query := `SELECT ` + articleColumnsPrefixed + ` FROM articles a`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	order := "a.created_at"
	if f.OrderBy == "updated_at" {
		order = "a.updated_at"
	}
	query += " ORDER BY " + order + " DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return collectArticles(rows)
}

// articleColumnsPrefixed is articleColumns with an "a." table alias, for
// queries that join.
var articleColumnsPrefixed = "a." + strings.ReplaceAll(articleColumns, ", ", ", a.")

// ListByCategory returns the articles attached to a category, optionally
// restricted to published ones, newest first.
func (s *ArticleStore) ListByCategory(categoryID uuid.UUID, publishedOnly bool) ([]models.Article, error) {
	return s.List(Filter{CategoryID: &categoryID, PublishedOnly: publishedOnly})
}

// TopStories returns the most-viewed featured published articles.
func (s *ArticleStore) TopStories(limit int) ([]models.Article, error) {
	rows, err := s.db.Query(`
		SELECT `+articleColumns+` FROM articles
		WHERE is_featured = true AND status = 'published'
		ORDER BY views DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	return collectArticles(rows)
}

// Recommended returns the latest published articles flagged as recommended.
func (s *ArticleStore) Recommended(limit int) ([]models.Article, error) {
	rows, err := s.db.Query(`
		SELECT `+articleColumns+` FROM articles
		WHERE is_recommended = true AND status = 'published'
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recommended articles: %w", err)
	}
	return collectArticles(rows)
}

// FindByID retrieves an article by ID. Returns nil if not found.
func (s *ArticleStore) FindByID(id uuid.UUID) (*models.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves an article by its slug. Returns nil if not found.
func (s *ArticleStore) FindBySlug(slug string) (*models.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// SlugExists reports whether any article already claims the slug.
func (s *ArticleStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("article slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new article and returns it. A slug collision with a
// concurrent writer surfaces as a conflict error.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	row := s.db.QueryRow(`
		INSERT INTO articles (title, slug, content, excerpt, category_id, author_id,
			status, is_published, reading_time, seo_title, meta_description,
			is_featured, is_recommended)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+articleColumns,
		a.Title, a.Slug, a.Content, a.Excerpt, a.CategoryID, a.AuthorID,
		a.Status, a.IsPublished, a.ReadingTime, a.SEOTitle, a.MetaDescription,
		a.IsFeatured, a.IsRecommended,
	)
	result, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", conflictOr(err, "article slug already exists"))
	}
	return result, nil
}

// Update modifies an existing article. Counters are excluded on purpose:
// views and likes only move through their increment operations.
func (s *ArticleStore) Update(a *models.Article) error {
	_, err := s.db.Exec(`
		UPDATE articles SET
			title = $1, slug = $2, content = $3, excerpt = $4, category_id = $5,
			status = $6, is_published = $7, reading_time = $8, seo_title = $9,
			meta_description = $10, is_featured = $11, is_recommended = $12,
			updated_at = NOW()
		WHERE id = $13
	`, a.Title, a.Slug, a.Content, a.Excerpt, a.CategoryID,
		a.Status, a.IsPublished, a.ReadingTime, a.SEOTitle,
		a.MetaDescription, a.IsFeatured, a.IsRecommended, a.ID)
	if err != nil {
		return fmt.Errorf("update article: %w", conflictOr(err, "article slug already exists"))
	}
	return nil
}

// Delete removes an article. Its images, comments, and association rows
// cascade away with it.
func (s *ArticleStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter by one. Each call counts one
// view; there is no read-modify-write race because the increment happens
// in the database.
func (s *ArticleStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE articles SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// IncrementLikes bumps the like counter by one.
func (s *ArticleStore) IncrementLikes(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE articles SET likes = likes + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment likes: %w", err)
	}
	return nil
}

// SetTags replaces the article's tag set in one transaction. Supplying an
// empty set clears all tags; callers that want "leave untouched" simply
// don't call this.
func (s *ArticleStore) SetTags(articleID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM article_tags WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("clear article tags: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare tag insert: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.Exec(articleID, tagID); err != nil {
			return fmt.Errorf("tag article %s with %s: %w", articleID, tagID, err)
		}
	}

	return tx.Commit()
}

// TagsOf returns the article's tags ordered by name.
func (s *ArticleStore) TagsOf(articleID uuid.UUID) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.description, t.created_at, t.updated_at
		FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = $1
		ORDER BY t.name
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("tags of article: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// SetRelated replaces the article's related-article set in one
// transaction. The relation is directional: this writes only the edges
// pointing away from articleID.
func (s *ArticleStore) SetRelated(articleID uuid.UUID, relatedIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM article_related WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("clear related articles: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO article_related (article_id, related_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare related insert: %w", err)
	}
	defer stmt.Close()

	for _, relID := range relatedIDs {
		if relID == articleID {
			continue // an article never relates to itself
		}
		if _, err := stmt.Exec(articleID, relID); err != nil {
			return fmt.Errorf("relate article %s to %s: %w", articleID, relID, err)
		}
	}

	return tx.Commit()
}

// RelatedOf returns up to limit articles related to articleID, following
// edges in the outgoing direction only.
func (s *ArticleStore) RelatedOf(articleID uuid.UUID, limit int) ([]models.Article, error) {
	rows, err := s.db.Query(`
		SELECT `+articleColumnsPrefixed+`
		FROM articles a
		JOIN article_related ar ON ar.related_id = a.id
		WHERE ar.article_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`, articleID, limit)
	if err != nil {
		return nil, fmt.Errorf("related articles: %w", err)
	}
	return collectArticles(rows)
}
