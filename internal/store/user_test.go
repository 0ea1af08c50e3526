// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
)

func TestUserCreateAndPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "user-test-" + uuid.NewString() + "@example.com"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	u, err := s.Create(email, "correct horse battery", "Test Writer", models.RoleStaff)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.PasswordHash == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}

	found, err := s.FindByEmail(email)
	if err != nil || found == nil {
		t.Fatalf("find by email: %v, %v", found, err)
	}
	if !s.CheckPassword(found, "correct horse battery") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(found, "wrong password") {
		t.Error("wrong password accepted")
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "user-dup-" + uuid.NewString() + "@example.com"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	if _, err := s.Create(email, "pass-one", "First", models.RoleUser); err != nil {
		t.Fatalf("create first: %v", err)
	}
	_, err := s.Create(email, "pass-two", "Second", models.RoleUser)
	if err == nil {
		t.Fatal("duplicate email accepted")
	}
	if !apperr.IsConflict(err) {
		t.Errorf("duplicate email error is not a conflict: %v", err)
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	u := testAuthor(t, db)

	if !u.Needs2FASetup() {
		t.Error("fresh admin should need 2FA setup")
	}

	if err := s.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("set secret: %v", err)
	}
	if err := s.EnableTOTP(u.ID); err != nil {
		t.Fatalf("enable: %v", err)
	}

	got, err := s.FindByID(u.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v, %v", got, err)
	}
	if !got.TOTPEnabled || got.TOTPSecret == nil {
		t.Error("TOTP enrollment did not persist")
	}
	if got.Needs2FASetup() {
		t.Error("enrolled admin still reports needing setup")
	}

	if err := s.ResetTOTP(u.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, err = s.FindByID(u.ID)
	if err != nil || got == nil {
		t.Fatalf("find after reset: %v, %v", got, err)
	}
	if got.TOTPEnabled || got.TOTPSecret != nil {
		t.Error("TOTP state survived a reset")
	}
}

func TestFirstAdmin(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	testAuthor(t, db)

	got, err := s.FirstAdmin()
	if err != nil {
		t.Fatalf("first admin: %v", err)
	}
	if got == nil {
		t.Fatal("no admin found despite one existing")
	}
	// Another admin may predate ours in the dev database, so only assert
	// the role, not the identity.
	if got.Role != models.RoleAdmin {
		t.Errorf("first admin role = %q", got.Role)
	}
}
