// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/auth"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/serializer"
	"inkpress/internal/store"
)

// Comments groups the reader-comment handlers: public submission and
// threaded reads, staff moderation.
type Comments struct {
	comments *store.CommentStore
	articles *store.ArticleStore
}

// NewComments creates a new Comments handler group.
func NewComments(comments *store.CommentStore, articles *store.ArticleStore) *Comments {
	return &Comments{comments: comments, articles: articles}
}

// threadDepth reads the depth budget from the query string.
func threadDepth(r *http.Request) int {
	return serializer.ParseDepth(r.URL.Query().Get("depth"), serializer.DefaultCommentDepth, serializer.MaxDepth)
}

// isModerator reports whether the request carries a moderating session.
func isModerator(r *http.Request) bool {
	sess := middleware.SessionFromCtx(r.Context())
	return sess != nil && auth.Allowed(sess.Role, auth.ActionModerate)
}

// ListByArticle serves the approved comment thread of an article. Both
// the depth budget and the per-level sibling cap bound the response;
// storage itself places no limit on thread shape. Moderators also see
// unapproved comments.
func (h *Comments) ListByArticle(w http.ResponseWriter, r *http.Request) {
	articleID, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := h.articles.FindByID(articleID)
	if err != nil {
		writeError(w, err)
		return
	}
	if a == nil {
		writeError(w, apperr.NotFound("article"))
		return
	}

	h.serveThread(w, r, articleID, nil)
}

// List serves a comment thread selected by the article query parameter.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("article")
	if raw == "" {
		writeError(w, apperr.Validation("article", "article parameter is required"))
		return
	}
	articleID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, apperr.Validation("article", "not a valid UUID"))
		return
	}

	a, err := h.articles.FindByID(articleID)
	if err != nil {
		writeError(w, err)
		return
	}
	if a == nil {
		writeError(w, apperr.NotFound("article"))
		return
	}

	h.serveThread(w, r, articleID, nil)
}

// serveThread loads an article's comments and serializes the subtree
// rooted at parent (nil for top-level comments).
func (h *Comments) serveThread(w http.ResponseWriter, r *http.Request, articleID uuid.UUID, parent *uuid.UUID) {
	flat, err := h.comments.ListByArticle(articleID, !isModerator(r))
	if err != nil {
		writeError(w, err)
		return
	}

	thread := serializer.CommentThread(flat, parent, 0, threadDepth(r), serializer.RepliesPerLevel)
	writeData(w, http.StatusOK, thread)
}

type commentInput struct {
	ArticleID uuid.UUID  `json:"article_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Content   string     `json:"content"`
	ParentID  *uuid.UUID `json:"parent_id"`
}

// Create accepts a comment from any reader, authenticated or not. New
// comments always start unapproved and stay invisible until a moderator
// approves them, regardless of what the submission claims.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var in commentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := validateCommentInput(in.Name, in.Email, in.Content); err != nil {
		writeError(w, err)
		return
	}

	a, err := h.articles.FindByID(in.ArticleID)
	if err != nil {
		writeError(w, err)
		return
	}
	if a == nil || !a.IsPublished {
		writeError(w, apperr.NotFound("article"))
		return
	}

	if in.ParentID != nil {
		parent, err := h.comments.FindByID(*in.ParentID)
		if err != nil {
			writeError(w, err)
			return
		}
		if parent == nil {
			writeError(w, apperr.NotFound("parent comment"))
			return
		}
		if parent.ArticleID != in.ArticleID {
			writeError(w, apperr.Validation("parent_id", "parent comment belongs to a different article"))
			return
		}
	}

	c := &models.Comment{
		ArticleID: in.ArticleID,
		Name:      in.Name,
		Email:     in.Email,
		Content:   in.Content,
		ParentID:  in.ParentID,
	}
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		c.UserID = &sess.UserID
	}

	created, err := h.comments.Create(c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// Get serves one comment and the replies beneath it, bounded the same
// way as full threads.
func (h *Comments) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.comments.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil || (!c.IsApproved && !isModerator(r)) {
		writeError(w, apperr.NotFound("comment"))
		return
	}

	flat, err := h.comments.ListByArticle(c.ArticleID, !isModerator(r))
	if err != nil {
		writeError(w, err)
		return
	}

	node := serializer.CommentNode{
		ID:         c.ID,
		ArticleID:  c.ArticleID,
		Name:       c.Name,
		Content:    c.Content,
		IsApproved: c.IsApproved,
		ParentID:   c.ParentID,
		CreatedAt:  c.CreatedAt,
		Replies:    serializer.CommentThread(flat, &c.ID, 0, threadDepth(r), serializer.RepliesPerLevel),
	}
	writeData(w, http.StatusOK, node)
}

// Pending lists unapproved comments for the moderation queue.
func (h *Comments) Pending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.comments.ListPending()
	if err != nil {
		writeError(w, err)
		return
	}
	if pending == nil {
		pending = []models.Comment{}
	}
	writeData(w, http.StatusOK, pending)
}

type approveInput struct {
	IDs []uuid.UUID `json:"ids"`
}

// Approve marks the given comments approved and reports how many rows
// actually changed. Re-approving is a no-op, so repeating a bulk approve
// after a partial failure is safe.
func (h *Comments) Approve(w http.ResponseWriter, r *http.Request) {
	var in approveInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if len(in.IDs) == 0 {
		writeError(w, apperr.Validation("ids", "at least one comment id is required"))
		return
	}

	approved, err := h.comments.Approve(in.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"approved": approved})
}

// Delete removes a comment and, through the schema, every reply beneath it.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.comments.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil {
		writeError(w, apperr.NotFound("comment"))
		return
	}

	if err := h.comments.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"deleted": id.String()})
}
