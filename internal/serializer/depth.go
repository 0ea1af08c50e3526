// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package serializer converts tree-shaped entities (categories and their
// subcategories, comments and their replies) into nested response
// structures under an explicit depth budget. The budget is threaded
// through every recursive call so serialization cost never grows with
// tree depth, even on self-referential data that is cyclic in error.
package serializer

import "strconv"

const (
	// DefaultCategoryDepth expands root categories plus their direct
	// subcategories; the taxonomy is capped at two tiers anyway.
	DefaultCategoryDepth = 1

	// DefaultCommentDepth expands a comment's replies and the replies
	// to those replies.
	DefaultCommentDepth = 2

	// MaxDepth clamps caller-supplied depth budgets.
	MaxDepth = 10

	// RepliesPerLevel caps the number of sibling replies serialized at
	// each level of a comment thread, independent of depth.
	RepliesPerLevel = 10
)

// ParseDepth interprets a raw query-string depth budget. Malformed or
// negative values coerce to def rather than failing the request; values
// above max clamp to max. Keeping the read path always-available is the
// point: a bad depth parameter is never an error.
func ParseDepth(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
