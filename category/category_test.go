package category

import (
	"strings"
	"testing"

	"github.com/amonks/daybook/internal/errs"
)

func TestNew(t *testing.T) {
	c, err := New("  Work ", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.Name != "Work" {
		t.Errorf("Name = %q, want %q", c.Name, "Work")
	}
	if c.Color != DefaultColor {
		t.Errorf("Color = %q, want default %q", c.Color, DefaultColor)
	}
	if c.ID == "" {
		t.Error("expected generated ID")
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		color string
		field string
	}{
		{"blank name", "   ", "", "name"},
		{"long name", strings.Repeat("w", MaxNameLength+1), "", "name"},
		{"bad color", "Work", "reddish", "color"},
		{"ansi out of range", "Work", "256", "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.input, tt.color)
			if !errs.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention field %q", err, tt.field)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := map[string]string{
		"#ABCDEF": "#abcdef",
		"#fff":    "#fff",
		"33":      "33",
		"":        DefaultColor,
	}
	for input, want := range tests {
		got, err := ValidateColor(input)
		if err != nil {
			t.Errorf("ValidateColor(%q) unexpected error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ValidateColor(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRenameKeepsID(t *testing.T) {
	c, err := New("Work", "#112233")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	id := c.ID

	if err := c.Rename(""); !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if c.Name != "Work" {
		t.Errorf("failed rename mutated name to %q", c.Name)
	}

	if err := c.Rename("Office"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if c.Name != "Office" || c.ID != id {
		t.Errorf("unexpected category after rename: %+v", c)
	}
}

func TestIndex(t *testing.T) {
	work := Category{ID: "w1", Name: "Work", Color: "#123456"}
	index := NewIndex([]Category{work})

	if index.Name("w1") != "Work" {
		t.Errorf("Name(w1) = %q", index.Name("w1"))
	}
	if index.Name("") != "" || index.Name("missing") != "" {
		t.Error("unknown ids should resolve to the empty bucket")
	}
	if index.Color("w1") != "#123456" || index.Color("missing") != DefaultColor {
		t.Error("unexpected colour resolution")
	}
}

func TestRetiredLabelIsNeverAValidName(t *testing.T) {
	tests := []Category{
		{ID: "", Name: "W"},
		{ID: "a1b2c3d4", Name: "Work"},
		{ID: "a1b2c3d4", Name: strings.Repeat("n", MaxNameLength)},
	}
	for _, c := range tests {
		t.Run(c.Name, func(t *testing.T) {
			label := c.RetiredLabel()
			if !strings.HasPrefix(label, c.Name) {
				t.Fatalf("label %q should start with the category name", label)
			}
			if _, err := ValidateName(label); !errs.IsValidation(err) {
				t.Fatalf("label %q must not be accepted as a category name, got %v", label, err)
			}
		})
	}
}
