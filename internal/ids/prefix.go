package ids

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMatch is returned when no ID starts with the given prefix.
	ErrNoMatch = errors.New("no matching id")

	// ErrAmbiguousPrefix is returned when a prefix matches more than one ID.
	ErrAmbiguousPrefix = errors.New("ambiguous id prefix")
)

// Index resolves user-typed ID prefixes against a known set of IDs.
type Index struct {
	ids []string
}

// NewIndex builds an index over ids. Matching is case-insensitive.
func NewIndex(ids []string) Index {
	return Index{ids: normalizeUnique(ids)}
}

// Resolve returns the full ID for prefix. An exact match wins over a longer
// ID sharing the same prefix.
func (index Index) Resolve(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", ErrNoMatch
	}

	var match string
	matches := 0
	for _, id := range index.ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			match = id
			matches++
		}
	}
	switch matches {
	case 0:
		return "", ErrNoMatch
	case 1:
		return match, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousPrefix, prefix)
	}
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index Index) PrefixLengths() map[string]int {
	return UniquePrefixLengths(index.ids)
}

// UniquePrefixLengths returns the shortest unique prefix length for each ID.
func UniquePrefixLengths(ids []string) map[string]int {
	uniqueIDs := normalizeUnique(ids)

	lengths := make(map[string]int, len(uniqueIDs))
	for _, id := range uniqueIDs {
		lengths[id] = uniquePrefixLength(id, uniqueIDs)
	}

	return lengths
}

func normalizeUnique(ids []string) []string {
	uniqueIDs := make([]string, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		idLower := strings.ToLower(id)
		if idLower == "" || seen[idLower] {
			continue
		}
		seen[idLower] = true
		uniqueIDs = append(uniqueIDs, idLower)
	}
	return uniqueIDs
}

func uniquePrefixLength(id string, ids []string) int {
	for length := 1; length <= len(id); length++ {
		prefix := id[:length]
		unique := true
		for _, other := range ids {
			if other == id {
				continue
			}
			if strings.HasPrefix(other, prefix) {
				unique = false
				break
			}
		}
		if unique {
			return length
		}
	}

	return len(id)
}
