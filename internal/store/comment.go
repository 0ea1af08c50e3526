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

// CommentStore manages article comments. The reply tree is stored flat
// via parent_id with no depth limit; serialization applies the bounds.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, article_id, user_id, name, email, content, is_approved, parent_id, created_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.ArticleID, &c.UserID, &c.Name, &c.Email,
		&c.Content, &c.IsApproved, &c.ParentID, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectComments(rows *sql.Rows) ([]models.Comment, error) {
	defer rows.Close()
	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListByArticle returns an article's comments oldest first — the stable
// ordering the thread serializer depends on. With approvedOnly set, the
// moderation queue stays invisible to public readers.
func (s *CommentStore) ListByArticle(articleID uuid.UUID, approvedOnly bool) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE article_id = $1`
	if approvedOnly {
		query += ` AND is_approved = true`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Query(query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return collectComments(rows)
}

// ListPending returns unapproved comments across all articles, oldest
// first, for the moderation queue.
func (s *CommentStore) ListPending() ([]models.Comment, error) {
	rows, err := s.db.Query(`SELECT ` + commentColumns + ` FROM comments WHERE is_approved = false ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list pending comments: %w", err)
	}
	return collectComments(rows)
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a new comment. Comments always start unapproved; the
// moderation bulk-approve is the only path to visibility.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (article_id, user_id, name, email, content, parent_id, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		RETURNING `+commentColumns,
		c.ArticleID, c.UserID, c.Name, c.Email, c.Content, c.ParentID,
	)
	result, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// Approve marks the given comments as approved and returns how many rows
// actually transitioned. Approving an already-approved comment is a
// no-op, not an error, so repeated calls report success with a count of 0.
func (s *CommentStore) Approve(ids []uuid.UUID) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE comments SET is_approved = true WHERE id = $1 AND is_approved = false`)
	if err != nil {
		return 0, fmt.Errorf("prepare approve: %w", err)
	}
	defer stmt.Close()

	var count int
	for _, id := range ids {
		res, err := stmt.Exec(id)
		if err != nil {
			return 0, fmt.Errorf("approve comment %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			count += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit approve: %w", err)
	}
	return count, nil
}

// Delete removes a comment. The entire reply subtree cascades away with
// it — destructive and unrecoverable, which the API layer warns about.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// CountByArticle returns how many comments an article has, approved only.
func (s *CommentStore) CountByArticle(articleID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE article_id = $1 AND is_approved = true`, articleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}
