package errs

import (
	"fmt"
	"testing"
)

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", Validation("name", "must be at most %d characters", 20), "invalid name: must be at most 20 characters"},
		{"validation without reason", &ValidationError{Field: "due date"}, "invalid due date"},
		{"duplicate with category", &DuplicateError{Name: "Study", Category: "Work"}, `task "Study" already exists in category "Work"`},
		{"duplicate without category", &DuplicateError{Name: "Study"}, `task "Study" already exists without a category`},
		{"duplicate category", &DuplicateError{Kind: "category", Name: "Work"}, `category "Work" already exists`},
		{"not found", NotFound("template", "abcd1234"), "template not found: abcd1234"},
		{"state", &StateError{Kind: "task", ID: "abcd1234", Reason: "already completed"}, "task abcd1234: already completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create template: %w", NotFound("category", "x"))
	if !IsNotFound(wrapped) {
		t.Error("expected IsNotFound to match wrapped error")
	}
	if IsValidation(wrapped) || IsDuplicate(wrapped) || IsState(wrapped) {
		t.Error("expected other predicates to reject a NotFoundError")
	}
}
