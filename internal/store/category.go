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

// CategoryStore manages the two-tier category taxonomy in the database.
// The tree is stored flat (a nullable parent_id per row) and traversed by
// query, never by in-memory pointer chasing, so concurrent mutation is
// always reflected.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// collectCategories drains rows into a slice.
func collectCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()
	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// List returns every category ordered by name then creation time. The
// ordering is what makes tree serialization deterministic, so it must
// stay stable across calls.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY name, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return collectCategories(rows)
}

// ListRoots returns top-tier categories only.
func (s *CategoryStore) ListRoots() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories WHERE parent_id IS NULL ORDER BY name, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list root categories: %w", err)
	}
	return collectCategories(rows)
}

// Subcategories returns the direct children of a category. The tier cap
// makes this also the full descendant set.
func (s *CategoryStore) Subcategories(parentID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY name, created_at`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return collectCategories(rows)
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by its slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByName retrieves a category by display name. Returns nil if not
// found. Used by the composite-name path to look up the parent.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE name = $1 ORDER BY created_at LIMIT 1`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// SlugExists reports whether any category already claims the slug.
func (s *CategoryStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new category and returns it. A slug collision with a
// concurrent writer surfaces as a conflict error.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", conflictOr(err, "category slug already exists"))
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Name, c.Slug, c.Description, c.ParentID, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", conflictOr(err, "category slug already exists"))
	}
	return nil
}

// Delete removes a category by ID. Subcategories survive with their
// parent reference nulled out (ON DELETE SET NULL), which leaves them
// indistinguishable from true roots.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
