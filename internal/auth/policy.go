// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth holds the role policy: which roles may perform which
// classes of action. The policy is a plain function of its inputs, so
// call sites never consult ambient state.
package auth

import "inkpress/internal/models"

// Actions checked against the policy.
const (
	// ActionWrite covers creating, updating, and deleting catalog
	// content: categories, tags, articles, and images.
	ActionWrite = "write"
	// ActionModerate covers approving and deleting reader comments.
	ActionModerate = "moderate"
	// ActionAdmin covers account administration.
	ActionAdmin = "admin"
)

// Allowed reports whether the role may perform the action. Unknown
// actions are denied.
func Allowed(role models.Role, action string) bool {
	switch action {
	case ActionWrite, ActionModerate:
		return role == models.RoleAdmin || role == models.RoleStaff
	case ActionAdmin:
		return role == models.RoleAdmin
	}
	return false
}
