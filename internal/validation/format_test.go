package validation

import (
	"testing"

	"github.com/amonks/daybook/internal/errs"
)

type sample string

const (
	first  sample = "first"
	second sample = "second"
)

func TestFormatValidValues(t *testing.T) {
	got := FormatValidValues([]sample{first, second})
	want := "first, second"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseEnum(t *testing.T) {
	got, err := ParseEnum("sample", "  SECOND ", []sample{first, second})
	if err != nil {
		t.Fatalf("ParseEnum failed: %v", err)
	}
	if got != second {
		t.Fatalf("expected %q, got %q", second, got)
	}

	_, err = ParseEnum("sample", "bad", []sample{first, second})
	if !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := `invalid sample: "bad" is not one of first, second`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
