// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reader comment on an article. Comments form an unbounded
// tree in storage via ParentID; depth is only bounded when the thread is
// serialized for a response. Deleting a comment cascades to its replies;
// deleting the article cascades to all of its comments.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	ArticleID  uuid.UUID  `json:"article_id"`
	UserID     *uuid.UUID `json:"user_id"`
	Name       string     `json:"name"`
	Email      string     `json:"-"` // collected for moderation, never serialized
	Content    string     `json:"content"`
	IsApproved bool       `json:"is_approved"`
	ParentID   *uuid.UUID `json:"parent_id"`
	CreatedAt  time.Time  `json:"created_at"`
}
