// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package serializer

import (
	"github.com/google/uuid"

	"inkpress/internal/models"
)

// CategorySummary is the flat projection of a category: scalar fields only.
type CategorySummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

// CategoryNode is a summary plus its serialized children. Children is
// always present in the output — an empty array once the depth budget is
// spent, never null.
type CategoryNode struct {
	CategorySummary
	Children []CategoryNode `json:"children"`
}

// CategoryDetail is the projection for single-category responses: the
// node plus a summary of its parent, if any.
type CategoryDetail struct {
	CategoryNode
	Parent *CategorySummary `json:"parent,omitempty"`
}

// Summary projects a category's scalar fields.
func Summary(c *models.Category) CategorySummary {
	return CategorySummary{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

// CategoryTree serializes the categories under parent from a flat list,
// expanding children only while depth < maxDepth. Output order follows
// the order of flat, which the store keeps stable (name, then creation
// time) so the same data always serializes identically.
func CategoryTree(flat []models.Category, parent *uuid.UUID, depth, maxDepth int) []CategoryNode {
	nodes := []CategoryNode{}
	for i := range flat {
		c := &flat[i]
		if !ptrEqual(c.ParentID, parent) {
			continue
		}
		node := CategoryNode{CategorySummary: Summary(c), Children: []CategoryNode{}}
		if depth < maxDepth {
			node.Children = CategoryTree(flat, &c.ID, depth+1, maxDepth)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Detail serializes a single category with its subcategories (bounded by
// maxDepth) and its parent summary.
func Detail(c *models.Category, parent *models.Category, flat []models.Category, maxDepth int) CategoryDetail {
	d := CategoryDetail{
		CategoryNode: CategoryNode{CategorySummary: Summary(c), Children: []CategoryNode{}},
	}
	if 0 < maxDepth {
		d.Children = CategoryTree(flat, &c.ID, 1, maxDepth)
	}
	if parent != nil {
		p := Summary(parent)
		d.Parent = &p
	}
	return d
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
