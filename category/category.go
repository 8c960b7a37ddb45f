// Package category defines the named, coloured tags that templates, task
// instances, goals and events may reference.
//
// Entities hold a category by id, never by name, so a rename is visible
// everywhere at once. Deleting a category clears those references instead of
// deleting the entities that held them; the cascade itself lives in the
// tracker because it spans every entity kind.
package category

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/ids"
)

const (
	// MaxNameLength is the maximum number of characters in a trimmed category name.
	MaxNameLength = 20

	// DefaultColor is used when a category is created without a colour.
	DefaultColor = "#808080"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Category is a user-defined tag. Identity is by ID.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// New validates name and color and returns a category with a fresh ID.
func New(name, color string) (Category, error) {
	name, err := ValidateName(name)
	if err != nil {
		return Category{}, err
	}
	color, err = ValidateColor(color)
	if err != nil {
		return Category{}, err
	}
	return Category{ID: ids.New(), Name: name, Color: color}, nil
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

// ValidateColor accepts "#rgb", "#rrggbb" or an ANSI-256 index. The empty
// colour becomes DefaultColor.
func ValidateColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return DefaultColor, nil
	}
	if hexColor.MatchString(color) {
		return strings.ToLower(color), nil
	}
	if n, err := strconv.Atoi(color); err == nil && n >= 0 && n <= 255 {
		return color, nil
	}
	return "", errs.Validation("color", "expected #rrggbb, #rgb or 0-255, got %q", color)
}

// Rename changes the name in place. The ID never changes.
func (c *Category) Rename(name string) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

// RetiredLabel is the breakdown key that keeps the historic completion
// counts of a deleted category. It is always longer than MaxNameLength, so
// no live category can take it over by name.
func (c Category) RetiredLabel() string {
	return fmt.Sprintf("%s (deleted category %s)", c.Name, c.ID)
}

// Index maps category ids to categories for name resolution.
type Index map[string]Category

// NewIndex builds an Index over categories.
func NewIndex(categories []Category) Index {
	index := make(Index, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index
}

// Name resolves id to the category's current name. Unknown or empty ids
// resolve to the empty string, the "no category" bucket.
func (index Index) Name(id string) string {
	if id == "" {
		return ""
	}
	return index[id].Name
}

// Color resolves id to the category's colour, or DefaultColor.
func (index Index) Color(id string) string {
	if c, ok := index[id]; ok && c.Color != "" {
		return c.Color
	}
	return DefaultColor
}
