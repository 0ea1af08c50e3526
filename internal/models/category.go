// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one node of the two-tier taxonomy: root categories and their
// direct subcategories. A category whose ParentID is nil is a root; the
// parent of a subcategory must itself be a root (enforced at write time,
// not by the schema).
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsRoot reports whether the category sits at the top tier.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
