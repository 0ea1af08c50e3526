// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/auth"
	"inkpress/internal/cache"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/serializer"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// Categories groups the two-tier taxonomy handlers.
type Categories struct {
	categories *store.CategoryStore
	articles   *store.ArticleStore
	respCache  *cache.ResponseCache
}

// NewCategories creates a new Categories handler group. respCache may be
// nil when Valkey is not configured.
func NewCategories(categories *store.CategoryStore, articles *store.ArticleStore, respCache *cache.ResponseCache) *Categories {
	return &Categories{categories: categories, articles: articles, respCache: respCache}
}

// parseID extracts and parses the {id} URL parameter.
func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("id", "not a valid UUID")
	}
	return id, nil
}

// List serves the category tree. The depth query parameter bounds how
// deep children are expanded; out-of-range or malformed values fall back
// to the default rather than failing the request.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	depth := serializer.ParseDepth(r.URL.Query().Get("depth"), serializer.DefaultCategoryDepth, serializer.MaxDepth)

	key := cache.CategoryTreeKey(depth)
	if h.respCache != nil {
		if body, ok := h.respCache.Get(r.Context(), key); ok {
			writeRaw(w, body)
			return
		}
	}

	// depth 0 never expands children, so fetch only the roots.
	var flat []models.Category
	var err error
	if depth == 0 {
		flat, err = h.categories.ListRoots()
	} else {
		flat, err = h.categories.List()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	tree := serializer.CategoryTree(flat, nil, 0, depth)

	if h.respCache != nil {
		if body, err := encodeEnvelope(tree); err == nil {
			h.respCache.Set(r.Context(), key, body)
		}
	}
	writeData(w, http.StatusOK, tree)
}

type categoryInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// Create adds a category. The name may carry an inline parent
// ("Technology > Gadgets"), in which case the parent root is created on
// demand and the new category becomes its child.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	parentName, name, err := splitCompositeName(in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateName(name); err != nil {
		writeError(w, err)
		return
	}

	parentID := in.ParentID
	if parentName != "" {
		if in.ParentID != nil {
			writeError(w, apperr.Validation("name", "composite name and parent_id are mutually exclusive"))
			return
		}
		parent, err := h.ensureRoot(parentName)
		if err != nil {
			writeError(w, err)
			return
		}
		parentID = &parent.ID
	}

	if parentID != nil {
		if err := h.checkParent(*parentID); err != nil {
			writeError(w, err)
			return
		}
	}

	created, err := h.createWithSlug(&models.Category{
		Name:        name,
		Description: in.Description,
		ParentID:    parentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.invalidate(r)
	writeData(w, http.StatusCreated, serializer.Summary(created))
}

// ensureRoot finds a root category by name, creating it if absent.
func (h *Categories) ensureRoot(name string) (*models.Category, error) {
	existing, err := h.categories.FindByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.IsRoot() {
			return nil, apperr.Validation("name", "'"+name+"' is a subcategory and cannot have children")
		}
		return existing, nil
	}
	return h.createWithSlug(&models.Category{Name: name})
}

// checkParent verifies that the designated parent exists and sits at the
// top tier. Subcategories cannot have children of their own.
func (h *Categories) checkParent(parentID uuid.UUID) error {
	parent, err := h.categories.FindByID(parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return apperr.NotFound("parent category")
	}
	if !parent.IsRoot() {
		return apperr.Validation("parent_id", "parent must be a top-level category")
	}
	return nil
}

// createWithSlug derives a unique slug for the category and inserts it.
// If a concurrent writer claims the slug between the check and the
// insert, one retry with the next suffix resolves the race.
func (h *Categories) createWithSlug(c *models.Category) (*models.Category, error) {
	base := slug.Generate(c.Name)
	unique, err := slug.MakeUnique(base, h.categories.SlugExists)
	if err != nil {
		return nil, err
	}
	c.Slug = unique

	created, err := h.categories.Create(c)
	if apperr.IsConflict(err) {
		c.Slug = slug.Next(base, unique)
		return h.categories.Create(c)
	}
	return created, err
}

// Get serves one category with its parent summary and children.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.categories.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil {
		writeError(w, apperr.NotFound("category"))
		return
	}

	var parent *models.Category
	if c.ParentID != nil {
		parent, err = h.categories.FindByID(*c.ParentID)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	flat, err := h.categories.List()
	if err != nil {
		writeError(w, err)
		return
	}

	depth := serializer.ParseDepth(r.URL.Query().Get("depth"), serializer.DefaultCategoryDepth, serializer.MaxDepth)
	writeData(w, http.StatusOK, serializer.Detail(c, parent, flat, depth))
}

// Update modifies a category's name, description, or parent. Reparenting
// is allowed only while it keeps the taxonomy at two tiers: a category
// with children cannot itself become a child.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.categories.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil {
		writeError(w, apperr.NotFound("category"))
		return
	}

	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := validateName(in.Name); err != nil {
		writeError(w, err)
		return
	}

	if in.ParentID != nil {
		if *in.ParentID == id {
			writeError(w, apperr.Validation("parent_id", "category cannot be its own parent"))
			return
		}
		if err := h.checkParent(*in.ParentID); err != nil {
			writeError(w, err)
			return
		}
		children, err := h.categories.Subcategories(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if len(children) > 0 {
			writeError(w, apperr.Validation("parent_id", "category with subcategories cannot become a subcategory"))
			return
		}
	}

	c.Name = in.Name
	c.Description = in.Description
	c.ParentID = in.ParentID

	if err := h.categories.Update(c); err != nil {
		writeError(w, err)
		return
	}

	h.invalidate(r)
	writeData(w, http.StatusOK, serializer.Summary(c))
}

// Delete removes a category. Its subcategories are promoted to roots by
// the schema (parent_id is set to NULL); attached articles lose their
// category the same way.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.categories.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil {
		writeError(w, apperr.NotFound("category"))
		return
	}

	if err := h.categories.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	h.invalidate(r)
	writeData(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// Subcategories lists the direct children of a category.
func (h *Categories) Subcategories(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	children, err := h.categories.Subcategories(id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]serializer.CategorySummary, 0, len(children))
	for i := range children {
		out = append(out, serializer.Summary(&children[i]))
	}
	writeData(w, http.StatusOK, out)
}

// Articles lists the articles attached to a category. Anonymous and
// reader requests see published articles only.
func (h *Categories) Articles(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	publishedOnly := sess == nil || !auth.Allowed(sess.Role, auth.ActionWrite)

	articles, err := h.articles.ListByCategory(id, publishedOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, serializer.ArticleCards(articles))
}

// invalidate clears cached category trees after a write.
func (h *Categories) invalidate(r *http.Request) {
	if h.respCache != nil {
		h.respCache.InvalidatePrefix(r.Context(), "categories:")
	}
}
