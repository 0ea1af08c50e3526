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

// TagStore manages the flat tag vocabulary.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, description, created_at, updated_at`

func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tags ordered by name.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT ` + tagColumns + ` FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(id uuid.UUID) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// Create inserts a new tag and returns it.
func (s *TagStore) Create(t *models.Tag) (*models.Tag, error) {
	row := s.db.QueryRow(`
		INSERT INTO tags (name, description)
		VALUES ($1, $2)
		RETURNING `+tagColumns,
		t.Name, t.Description,
	)
	result, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", conflictOr(err, "tag name already exists"))
	}
	return result, nil
}

// GetOrCreate finds a tag by name, creating it when absent. Used by the
// document importer, which receives tag names rather than IDs.
func (s *TagStore) GetOrCreate(name string) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE name = $1`, name)
	t, err := scanTag(row)
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return s.Create(&models.Tag{Name: name})
}

// Update modifies an existing tag.
func (s *TagStore) Update(t *models.Tag) error {
	_, err := s.db.Exec(`
		UPDATE tags SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`, t.Name, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("update tag: %w", conflictOr(err, "tag name already exists"))
	}
	return nil
}

// Delete removes a tag. Article associations disappear with it; articles
// themselves are untouched.
func (s *TagStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
