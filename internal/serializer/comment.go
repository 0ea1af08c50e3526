// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package serializer

import (
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// CommentNode is one comment plus its serialized replies. The commenter's
// email is collected on input for moderation but never appears here.
type CommentNode struct {
	ID         uuid.UUID  `json:"id"`
	ArticleID  uuid.UUID  `json:"article_id"`
	Name       string     `json:"name"`
	Content    string     `json:"content"`
	IsApproved bool       `json:"is_approved"`
	ParentID   *uuid.UUID `json:"parent_id"`
	CreatedAt  time.Time  `json:"created_at"`
	Replies    []CommentNode `json:"replies"`
}

// CommentThread serializes the comments under parent from a flat list.
// Two bounds apply independently: replies are expanded only while
// depth < maxDepth, and at most perLevel siblings are emitted per level.
// Storage places no depth limit on the thread, so both bounds are what
// keep a response finite. Ordering follows flat (creation time).
func CommentThread(flat []models.Comment, parent *uuid.UUID, depth, maxDepth, perLevel int) []CommentNode {
	nodes := []CommentNode{}
	for i := range flat {
		c := &flat[i]
		if !ptrEqual(c.ParentID, parent) {
			continue
		}
		if perLevel > 0 && len(nodes) >= perLevel {
			break
		}
		node := CommentNode{
			ID:         c.ID,
			ArticleID:  c.ArticleID,
			Name:       c.Name,
			Content:    c.Content,
			IsApproved: c.IsApproved,
			ParentID:   c.ParentID,
			CreatedAt:  c.CreatedAt,
			Replies:    []CommentNode{},
		}
		if depth < maxDepth {
			node.Replies = CommentThread(flat, &c.ID, depth+1, maxDepth, perLevel)
		}
		nodes = append(nodes, node)
	}
	return nodes
}
