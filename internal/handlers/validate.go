// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"inkpress/internal/apperr"
)

// Validation limits for submitted fields.
const (
	maxNameLen     = 100
	maxTitleLen    = 300
	maxContentLen  = 100_000
	maxExcerptLen  = 1_000
	maxMetaDescLen = 500
	maxCommentLen  = 5_000
	maxCaptionLen  = 300
	maxEmailLen    = 254

	// compositeSeparator splits a combined "Parent > Child" category name.
	compositeSeparator = ">"
)

// splitCompositeName interprets a category name that may carry an inline
// parent, e.g. "Technology > Gadgets". Returns ("", name) for a plain
// name. More than one separator would imply a third tier, which the
// taxonomy does not have.
func splitCompositeName(name string) (parent, child string, err error) {
	parts := strings.Split(name, compositeSeparator)
	switch len(parts) {
	case 1:
		return "", strings.TrimSpace(parts[0]), nil
	case 2:
		parent = strings.TrimSpace(parts[0])
		child = strings.TrimSpace(parts[1])
		if parent == "" || child == "" {
			return "", "", apperr.Validation("name", "both sides of '>' must be non-empty")
		}
		return parent, child, nil
	default:
		return "", "", apperr.Validation("name", "category name may contain at most one '>'")
	}
}

// validateName checks a category or tag name.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return apperr.Validation("name", "name is too long (max 100 characters)")
	}
	return nil
}

// validateArticleInput checks the writable scalar fields of an article.
func validateArticleInput(title, content, excerpt string, metaDescription *string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title", "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apperr.Validation("title", "title is too long (max 300 characters)")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return apperr.Validation("content", "content is too long (max 100,000 characters)")
	}
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return apperr.Validation("excerpt", "excerpt is too long (max 1,000 characters)")
	}
	if metaDescription != nil && utf8.RuneCountInString(*metaDescription) > maxMetaDescLen {
		return apperr.Validation("meta_description", "meta description is too long (max 500 characters)")
	}
	return nil
}

// validateCommentInput checks a submitted comment.
func validateCommentInput(name, email, content string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return apperr.Validation("name", "name is too long (max 100 characters)")
	}
	if email != "" {
		if utf8.RuneCountInString(email) > maxEmailLen || !strings.Contains(email, "@") {
			return apperr.Validation("email", "email address is not valid")
		}
	}
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("content", "content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return apperr.Validation("content", "comment is too long (max 5,000 characters)")
	}
	return nil
}

// validateCaption checks an image caption.
func validateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > maxCaptionLen {
		return apperr.Validation("caption", "caption is too long (max 300 characters)")
	}
	return nil
}
