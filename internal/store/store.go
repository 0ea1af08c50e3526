// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Inkpress
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Slug and name collisions are left to the database's unique
// constraints: stores pre-check nothing and translate the constraint
// violation into a conflict error for the caller to retry or surface.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"inkpress/internal/apperr"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// conflictOr converts a unique-constraint violation into a conflict error
// carrying message; any other error passes through unchanged.
func conflictOr(err error, message string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict(message, err)
	}
	return err
}
