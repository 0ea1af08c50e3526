// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error kinds surfaced by write and read
// operations: validation failures, uniqueness conflicts, missing entities,
// and permission denials. Handlers translate these into HTTP responses;
// no kind is ever allowed to propagate as an unhandled fault.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation marks an invariant violation in the submitted data.
	// The whole write is rejected; nothing is partially applied.
	KindValidation Kind = iota + 1
	// KindConflict marks a uniqueness constraint lost to a concurrent
	// writer despite the pre-check.
	KindConflict
	// KindNotFound marks a reference that does not resolve to an
	// existing entity.
	KindNotFound
	// KindPermission marks a caller lacking the role required for the
	// requested action. Distinct from NotFound: the resource may exist.
	KindPermission
)

// Error is an application error with a kind and, for validation errors,
// the offending field.
type Error struct {
	Kind    Kind
	Field   string // set for validation errors
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a field-level validation error.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Conflict returns a uniqueness-conflict error wrapping its cause.
func Conflict(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

// NotFound returns a not-found error for the named entity.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Permission returns a permission-denied error for the named action.
func Permission(action string) *Error {
	return &Error{Kind: KindPermission, Message: "not allowed to " + action}
}

// KindOf extracts the kind from err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
