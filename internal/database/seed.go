// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a starter two-tier taxonomy. It is a no-op when users
// already exist. The admin is prompted to set up 2FA on first login
// (totp_enabled = false).
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@inkpress.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter taxonomy: one root with one subcategory, so the category
	// endpoints return something before any editorial work happens.
	_, err = db.Exec(`
		WITH root AS (
			INSERT INTO categories (name, slug, description)
			VALUES ('General', 'general', 'Uncategorized writing')
			RETURNING id
		)
		INSERT INTO categories (name, slug, description, parent_id)
		SELECT 'Notes', 'notes', 'Short-form posts', id FROM root
	`)
	if err != nil {
		return fmt.Errorf("seed insert categories: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkpress.local",
		"password", "admin",
	)

	return nil
}
