// Package errs defines the error taxonomy shared by every daybook use case.
//
// All four kinds carry enough context to render a user-facing message from
// Error() alone, so presenters never need to switch on the concrete type.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports a field-level, user-correctable problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError with a formatted reason.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DuplicateError reports a name collision: between templates, a name plus
// resolved category name; between categories, an exact name.
type DuplicateError struct {
	Kind     string
	Name     string
	Category string
}

func (e *DuplicateError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "task"
	}
	if kind != "task" {
		return fmt.Sprintf("%s %q already exists", kind, e.Name)
	}
	if e.Category == "" {
		return fmt.Sprintf("%s %q already exists without a category", kind, e.Name)
	}
	return fmt.Sprintf("%s %q already exists in category %q", kind, e.Name, e.Category)
}

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// StateError reports an illegal state transition.
type StateError struct {
	Kind   string
	ID     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.ID, e.Reason)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsDuplicate reports whether err wraps a DuplicateError.
func IsDuplicate(err error) bool {
	var target *DuplicateError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsState reports whether err wraps a StateError.
func IsState(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}
