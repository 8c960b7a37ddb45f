// Package info implements the descriptive metadata shared by every trackable
// entity: templates, task instances, goals and events all embed an Info.
package info

import (
	"strings"
	"unicode/utf8"

	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/ids"
)

const (
	// MaxNameLength is the maximum number of characters in a trimmed name.
	MaxNameLength = 20

	// MaxDescriptionLength is the maximum number of characters in a trimmed description.
	MaxDescriptionLength = 100
)

// Info is the identity and display metadata of an entity.
// Two Infos are the same entity iff their IDs match.
type Info struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	CategoryID  string   `json:"category_id,omitempty"`
	CreatedDate day.Date `json:"created_date"`
}

// New validates name and description and returns an Info with a freshly
// generated ID. No ID is generated when validation fails.
//
// The category reference is stored as given; checking that it names a
// registered category is the caller's job.
func New(name, description, categoryID string, created day.Date) (Info, error) {
	name, err := ValidateName(name)
	if err != nil {
		return Info{}, err
	}
	description, err = ValidateDescription(description)
	if err != nil {
		return Info{}, err
	}
	return Info{
		ID:          ids.New(),
		Name:        name,
		Description: description,
		CategoryID:  strings.TrimSpace(categoryID),
		CreatedDate: created,
	}, nil
}

// ValidateName trims name and checks that it has 1 to MaxNameLength characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.Validation("name", "cannot be empty")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return "", errs.Validation("name", "must be at most %d characters, got %d", MaxNameLength, n)
	}
	return name, nil
}

// ValidateDescription trims description and checks that it has at most
// MaxDescriptionLength characters. The empty description is valid.
func ValidateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return "", errs.Validation("description", "must be at most %d characters, got %d", MaxDescriptionLength, n)
	}
	return description, nil
}

// SetName replaces the name after re-running name validation.
// On failure the Info is left unchanged.
func (i *Info) SetName(name string) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}
	i.Name = name
	return nil
}

// SetDescription replaces the description after re-running validation.
func (i *Info) SetDescription(description string) error {
	description, err := ValidateDescription(description)
	if err != nil {
		return err
	}
	i.Description = description
	return nil
}

// SetCategory points the Info at another category. The empty id clears it.
func (i *Info) SetCategory(categoryID string) {
	i.CategoryID = strings.TrimSpace(categoryID)
}

// HasCategory reports whether the Info references a category.
func (i Info) HasCategory() bool {
	return i.CategoryID != ""
}

// Same reports whether i and other identify the same entity.
func (i Info) Same(other Info) bool {
	return i.ID != "" && i.ID == other.ID
}
