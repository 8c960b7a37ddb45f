// Package validation holds helpers for the closed string enumerations
// (priorities, periods, store backends) used across daybook.
package validation

import (
	"strings"

	"github.com/amonks/daybook/internal/errs"
	internalstrings "github.com/amonks/daybook/internal/strings"
)

// FormatValidValues joins string-like values for error messages.
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// InvalidValue reports value as not one of valid for field.
func InvalidValue[T ~string](field string, value T, valid []T) error {
	return errs.Validation(field, "%q is not one of %s", string(value), FormatValidValues(valid))
}

// ParseEnum trims and lowercases value and matches it against valid.
func ParseEnum[T ~string](field, value string, valid []T) (T, error) {
	normalized := T(internalstrings.NormalizeLowerTrimSpace(value))
	for _, v := range valid {
		if v == normalized {
			return v, nil
		}
	}
	return "", InvalidValue(field, T(value), valid)
}
