// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// MakeUnique disambiguates base against already-claimed slugs by appending
// an incrementing numeric suffix ("-1", "-2", …) until taken reports the
// candidate as free. The predicate is supplied by the caller, typically a
// store lookup; MakeUnique itself persists nothing.
//
// The loop also applies to an empty base, so colliding empty slugs become
// "-1", "-2", and so on. The worst case is linear in the number of
// existing collisions. The store's unique constraint remains the final
// arbiter under concurrent writes: two requests can both see the same
// candidate as free, and the losing writer must retry with Next.
func MakeUnique(base string, taken func(string) (bool, error)) (string, error) {
	candidate := base
	for num := 1; ; num++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", fmt.Errorf("slug existence check %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, num)
	}
}

// Next returns the candidate that follows s in the numeric-suffix sequence
// for the given base: "post" → "post-1", "post-1" → "post-2". Used to retry
// once after losing a uniqueness race to a concurrent writer.
func Next(base, s string) string {
	if s == base {
		return base + "-1"
	}
	rest := strings.TrimPrefix(s, base+"-")
	var num int
	if _, err := fmt.Sscanf(rest, "%d", &num); err != nil {
		return base + "-1"
	}
	return fmt.Sprintf("%s-%d", base, num+1)
}
