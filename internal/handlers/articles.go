// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/auth"
	"inkpress/internal/cache"
	"inkpress/internal/markdown"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/serializer"
	"inkpress/internal/slug"
	"inkpress/internal/storage"
	"inkpress/internal/store"
)

// listLimit caps the featured and recommended strips.
const listLimit = 10

// Articles groups the article CRUD, listing, and counter handlers.
type Articles struct {
	articles   *store.ArticleStore
	categories *store.CategoryStore
	tags       *store.TagStore
	comments   *store.CommentStore
	images     *store.ImageStore
	storage    *storage.Client
	respCache  *cache.ResponseCache
}

// NewArticles creates a new Articles handler group. storage and respCache
// may be nil when S3 or Valkey are not configured.
func NewArticles(articles *store.ArticleStore, categories *store.CategoryStore, tags *store.TagStore, comments *store.CommentStore, images *store.ImageStore, storageClient *storage.Client, respCache *cache.ResponseCache) *Articles {
	return &Articles{
		articles:   articles,
		categories: categories,
		tags:       tags,
		comments:   comments,
		images:     images,
		storage:    storageClient,
		respCache:  respCache,
	}
}

// List serves filtered article listings. Anonymous and reader requests
// are restricted to published articles regardless of the filters sent.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess := middleware.SessionFromCtx(r.Context())
	staff := sess != nil && auth.Allowed(sess.Role, auth.ActionWrite)

	f := store.Filter{
		Search:  q.Get("q"),
		OrderBy: q.Get("ordering"),
	}
	if v := q.Get("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, apperr.Validation("category", "not a valid UUID"))
			return
		}
		f.CategoryID = &id
	}
	if v := q.Get("tag"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, apperr.Validation("tag", "not a valid UUID"))
			return
		}
		f.TagID = &id
	}
	if v := q.Get("status"); v != "" && staff {
		status := models.ArticleStatus(v)
		if !status.Valid() {
			writeError(w, apperr.Validation("status", "unknown status"))
			return
		}
		f.Status = status
	}
	if !staff {
		f.PublishedOnly = true
	}

	// Anonymous listings are cacheable; authenticated ones vary by role.
	key := cache.ArticleListKey(r.URL.RawQuery)
	cacheable := sess == nil && h.respCache != nil
	if cacheable {
		if body, ok := h.respCache.Get(r.Context(), key); ok {
			writeRaw(w, body)
			return
		}
	}

	articles, err := h.articles.List(f)
	if err != nil {
		writeError(w, err)
		return
	}
	cards := serializer.ArticleCards(articles)

	if cacheable {
		if body, err := encodeEnvelope(cards); err == nil {
			h.respCache.Set(r.Context(), key, body)
		}
	}
	writeData(w, http.StatusOK, cards)
}

// articleInput carries the writable fields of an article. TagIDs and
// RelatedIDs distinguish "absent" (nil pointer, associations untouched)
// from "present but empty" (replace with nothing).
type articleInput struct {
	Title           string       `json:"title"`
	Content         string       `json:"content"`
	Excerpt         string       `json:"excerpt"`
	CategoryID      *uuid.UUID   `json:"category_id"`
	Status          string       `json:"status"`
	SEOTitle        *string      `json:"seo_title"`
	MetaDescription *string      `json:"meta_description"`
	IsFeatured      bool         `json:"is_featured"`
	IsRecommended   bool         `json:"is_recommended"`
	TagIDs          *[]uuid.UUID `json:"tag_ids"`
	RelatedIDs      *[]uuid.UUID `json:"related_ids"`
}

// validate checks the scalar fields and resolves the status.
func (in *articleInput) validate() (models.ArticleStatus, error) {
	if err := validateArticleInput(in.Title, in.Content, in.Excerpt, in.MetaDescription); err != nil {
		return "", err
	}
	status := models.ArticleStatusDraft
	if in.Status != "" {
		status = models.ArticleStatus(in.Status)
		if !status.Valid() {
			return "", apperr.Validation("status", "unknown status")
		}
	}
	return status, nil
}

// checkCategory verifies a supplied category exists and is a
// subcategory. Articles never attach to root categories, but they may go
// uncategorized entirely (and do, after their category is deleted).
func (h *Articles) checkCategory(id uuid.UUID) error {
	c, err := h.categories.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound("category")
	}
	if c.IsRoot() {
		return apperr.Validation("category_id", "articles attach to subcategories, not top-level categories")
	}
	return nil
}

// Create adds an article authored by the current user.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var in articleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	status, err := in.validate()
	if err != nil {
		writeError(w, err)
		return
	}
	if in.CategoryID != nil {
		if err := h.checkCategory(*in.CategoryID); err != nil {
			writeError(w, err)
			return
		}
	}

	a := &models.Article{
		Title:           in.Title,
		Content:         in.Content,
		Excerpt:         in.Excerpt,
		CategoryID:      in.CategoryID,
		AuthorID:        sess.UserID,
		Status:          status,
		IsPublished:     status == models.ArticleStatusPublished,
		ReadingTime:     markdown.ReadingTime(in.Content),
		SEOTitle:        in.SEOTitle,
		MetaDescription: in.MetaDescription,
		IsFeatured:      in.IsFeatured,
		IsRecommended:   in.IsRecommended,
	}

	created, err := h.createWithSlug(a)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.applyAssociations(created.ID, in.TagIDs, in.RelatedIDs); err != nil {
		writeError(w, err)
		return
	}

	h.invalidate(r)
	h.serveFull(w, r, created, http.StatusCreated)
}

// createWithSlug derives a unique slug from the title and inserts the
// article, retrying once with the next suffix if a concurrent writer
// claims the slug between check and insert.
func (h *Articles) createWithSlug(a *models.Article) (*models.Article, error) {
	base := slug.Generate(a.Title)
	unique, err := slug.MakeUnique(base, h.articles.SlugExists)
	if err != nil {
		return nil, err
	}
	a.Slug = unique

	created, err := h.articles.Create(a)
	if apperr.IsConflict(err) {
		a.Slug = slug.Next(base, unique)
		return h.articles.Create(a)
	}
	return created, err
}

// applyAssociations replaces the tag and related-article sets when the
// corresponding input field was present. A nil pointer leaves the
// existing set alone.
func (h *Articles) applyAssociations(articleID uuid.UUID, tagIDs, relatedIDs *[]uuid.UUID) error {
	if tagIDs != nil {
		for _, id := range *tagIDs {
			tag, err := h.tags.FindByID(id)
			if err != nil {
				return err
			}
			if tag == nil {
				return apperr.NotFound("tag")
			}
		}
		if err := h.articles.SetTags(articleID, *tagIDs); err != nil {
			return err
		}
	}
	if relatedIDs != nil {
		for _, id := range *relatedIDs {
			related, err := h.articles.FindByID(id)
			if err != nil {
				return err
			}
			if related == nil {
				return apperr.NotFound("related article")
			}
		}
		if err := h.articles.SetRelated(articleID, *relatedIDs); err != nil {
			return err
		}
	}
	return nil
}

// Get serves one article by ID with its category, tags, related
// articles, and images.
func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := h.articles.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.checkVisible(r, a); err != nil {
		writeError(w, err)
		return
	}
	h.serveFull(w, r, a, http.StatusOK)
}

// GetBySlug serves one article by slug, the public permalink form.
func (h *Articles) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	key := cache.ArticleKey(slugParam)
	sess := middleware.SessionFromCtx(r.Context())
	cacheable := sess == nil && h.respCache != nil
	if cacheable {
		if body, ok := h.respCache.Get(r.Context(), key); ok {
			writeRaw(w, body)
			return
		}
	}

	a, err := h.articles.FindBySlug(slugParam)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.checkVisible(r, a); err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.assemble(a)
	if err != nil {
		writeError(w, err)
		return
	}
	if cacheable {
		if body, err := encodeEnvelope(detail); err == nil {
			h.respCache.Set(r.Context(), key, body)
		}
	}
	writeData(w, http.StatusOK, detail)
}

// checkVisible hides drafts from non-staff callers. A draft reads as
// absent, not as forbidden, so its existence leaks nothing.
func (h *Articles) checkVisible(r *http.Request, a *models.Article) error {
	if a == nil {
		return apperr.NotFound("article")
	}
	sess := middleware.SessionFromCtx(r.Context())
	if !a.IsPublished && (sess == nil || !auth.Allowed(sess.Role, auth.ActionWrite)) {
		return apperr.NotFound("article")
	}
	return nil
}

// Update modifies an article. Associations follow the pointer semantics
// of articleInput; the slug never changes once assigned.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := h.articles.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if a == nil {
		writeError(w, apperr.NotFound("article"))
		return
	}

	var in articleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	status, err := in.validate()
	if err != nil {
		writeError(w, err)
		return
	}
	if in.CategoryID != nil {
		if err := h.checkCategory(*in.CategoryID); err != nil {
			writeError(w, err)
			return
		}
	}

	a.Title = in.Title
	a.Content = in.Content
	a.Excerpt = in.Excerpt
	a.CategoryID = in.CategoryID
	a.Status = status
	a.IsPublished = status == models.ArticleStatusPublished
	a.ReadingTime = markdown.ReadingTime(in.Content)
	a.SEOTitle = in.SEOTitle
	a.MetaDescription = in.MetaDescription
	a.IsFeatured = in.IsFeatured
	a.IsRecommended = in.IsRecommended

	if err := h.articles.Update(a); err != nil {
		writeError(w, err)
		return
	}
	if err := h.applyAssociations(a.ID, in.TagIDs, in.RelatedIDs); err != nil {
		writeError(w, err)
		return
	}

	h.invalidate(r)
	h.serveFull(w, r, a, http.StatusOK)
}

// Delete removes an article. Comments, images rows, and association rows
// go with it; S3 objects for its images are removed best-effort.
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := h.articles.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if a == nil {
		writeError(w, apperr.NotFound("article"))
		return
	}

	if h.storage != nil {
		images, err := h.images.ListByArticle(id)
		if err == nil {
			for i := range images {
				h.storage.Delete(r.Context(), images[i].S3Key)
				if images[i].ThumbS3Key != nil {
					h.storage.Delete(r.Context(), *images[i].ThumbS3Key)
				}
			}
		}
	}

	if err := h.articles.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	h.invalidate(r)
	writeData(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// View records a page view. Counters are incremented in SQL, never
// read-modify-write, so concurrent views all land.
func (h *Articles) View(w http.ResponseWriter, r *http.Request) {
	h.bump(w, r, h.articles.IncrementViews)
}

// Like records a reader like.
func (h *Articles) Like(w http.ResponseWriter, r *http.Request) {
	h.bump(w, r, h.articles.IncrementLikes)
}

func (h *Articles) bump(w http.ResponseWriter, r *http.Request, inc func(uuid.UUID) error) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := h.articles.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.checkVisible(r, a); err != nil {
		writeError(w, err)
		return
	}

	if err := inc(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "counted"})
}

// TopStories serves the featured published articles, most viewed first.
func (h *Articles) TopStories(w http.ResponseWriter, r *http.Request) {
	h.strip(w, r, cache.TopStoriesKey, func() ([]models.Article, error) {
		return h.articles.TopStories(listLimit)
	})
}

// Recommended serves the editorially recommended published articles.
func (h *Articles) Recommended(w http.ResponseWriter, r *http.Request) {
	h.strip(w, r, cache.RecommendedKey, func() ([]models.Article, error) {
		return h.articles.Recommended(listLimit)
	})
}

func (h *Articles) strip(w http.ResponseWriter, r *http.Request, key string, fetch func() ([]models.Article, error)) {
	if h.respCache != nil {
		if body, ok := h.respCache.Get(r.Context(), key); ok {
			writeRaw(w, body)
			return
		}
	}

	articles, err := fetch()
	if err != nil {
		writeError(w, err)
		return
	}
	cards := serializer.ArticleCards(articles)

	if h.respCache != nil {
		if body, err := encodeEnvelope(cards); err == nil {
			h.respCache.Set(r.Context(), key, body)
		}
	}
	writeData(w, http.StatusOK, cards)
}

// serveFull assembles and writes the full article projection.
func (h *Articles) serveFull(w http.ResponseWriter, r *http.Request, a *models.Article, status int) {
	detail, err := h.assemble(a)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, status, detail)
}

// assemble gathers the article's category chain, tags, related articles,
// and images into the detail projection.
func (h *Articles) assemble(a *models.Article) (serializer.ArticleDetail, error) {
	var category, parent *models.Category
	if a.CategoryID != nil {
		var err error
		category, err = h.categories.FindByID(*a.CategoryID)
		if err != nil {
			return serializer.ArticleDetail{}, err
		}
		if category != nil && category.ParentID != nil {
			parent, err = h.categories.FindByID(*category.ParentID)
			if err != nil {
				return serializer.ArticleDetail{}, err
			}
		}
	}

	tags, err := h.articles.TagsOf(a.ID)
	if err != nil {
		return serializer.ArticleDetail{}, err
	}
	related, err := h.articles.RelatedOf(a.ID, listLimit)
	if err != nil {
		return serializer.ArticleDetail{}, err
	}
	images, err := h.images.ListByArticle(a.ID)
	if err != nil {
		return serializer.ArticleDetail{}, err
	}
	resolveImageURLs(h.storage, images)

	commentCount, err := h.comments.CountByArticle(a.ID)
	if err != nil {
		return serializer.ArticleDetail{}, err
	}

	detail := serializer.ArticleFull(a, category, parent, tags, related, images)
	detail.CommentCount = commentCount
	html, err := markdown.ToHTML(a.Content)
	if err != nil {
		return serializer.ArticleDetail{}, fmt.Errorf("render article %s: %w", a.Slug, err)
	}
	detail.ContentHTML = html
	return detail, nil
}

// resolveImageURLs fills in the public URLs when storage is configured.
func resolveImageURLs(client *storage.Client, images []models.ArticleImage) {
	if client == nil {
		return
	}
	for i := range images {
		images[i].URL = client.FileURL(images[i].S3Key)
		if images[i].ThumbS3Key != nil {
			images[i].ThumbURL = client.FileURL(*images[i].ThumbS3Key)
		}
	}
}

// invalidate clears cached article listings and details after a write.
func (h *Articles) invalidate(r *http.Request) {
	if h.respCache != nil {
		h.respCache.InvalidatePrefix(r.Context(), "articles:")
	}
}
