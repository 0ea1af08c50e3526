package auth

import (
	"testing"

	"inkpress/internal/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		role   models.Role
		action string
		want   bool
	}{
		{models.RoleAdmin, ActionWrite, true},
		{models.RoleAdmin, ActionModerate, true},
		{models.RoleAdmin, ActionAdmin, true},
		{models.RoleStaff, ActionWrite, true},
		{models.RoleStaff, ActionModerate, true},
		{models.RoleStaff, ActionAdmin, false},
		{models.RoleUser, ActionWrite, false},
		{models.RoleUser, ActionModerate, false},
		{models.RoleUser, ActionAdmin, false},
		{models.RoleUser, "unknown", false},
		{models.RoleAdmin, "unknown", false},
		{models.Role(""), ActionWrite, false},
	}

	for _, tt := range tests {
		if got := Allowed(tt.role, tt.action); got != tt.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tt.role, tt.action, got, tt.want)
		}
	}
}
