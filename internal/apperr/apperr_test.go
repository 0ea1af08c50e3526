package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("name", "required"), KindValidation},
		{"conflict", Conflict("slug taken", nil), KindConflict},
		{"not found", NotFound("category"), KindNotFound},
		{"permission", Permission("delete articles"), KindPermission},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("article")), KindNotFound},
		{"plain error", errors.New("boom"), 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Validation("parent", "parent must be a top-level category")
	if err.Error() != "parent: parent must be a top-level category" {
		t.Errorf("unexpected message %q", err.Error())
	}

	nf := NotFound("tag")
	if nf.Error() != "tag not found" {
		t.Errorf("unexpected message %q", nf.Error())
	}
}

func TestConflictUnwrap(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := Conflict("slug already exists", cause)
	if !errors.Is(err, cause) {
		t.Error("expected conflict to wrap its cause")
	}
	if !IsConflict(err) {
		t.Error("IsConflict() = false, want true")
	}
}
