package store

import (
	"fmt"
	"strings"

	"github.com/amonks/daybook/internal/validation"
)

// Backend loads and atomically updates a State.
type Backend interface {
	// Load returns a snapshot of the stored state. Mutating it has no effect
	// on the store.
	Load() (*State, error)

	// Update applies fn to the current state and persists the result if fn
	// returns nil. Concurrent Updates are serialized.
	Update(fn func(st *State) error) error

	Close() error
}

// Kind selects a backend implementation.
type Kind string

const (
	KindJSON   Kind = "json"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// ValidKinds returns all valid backend kinds.
func ValidKinds() []Kind {
	return []Kind{KindJSON, KindSQLite, KindMemory}
}

// Open opens the backend of the given kind rooted at dir.
// The empty kind selects KindJSON.
func Open(kind string, dir string) (Backend, error) {
	if strings.TrimSpace(kind) == "" {
		kind = string(KindJSON)
	}
	k, err := validation.ParseEnum("store backend", kind, ValidKinds())
	if err != nil {
		return nil, err
	}
	switch k {
	case KindSQLite:
		return OpenSQLite(SQLitePath(dir))
	case KindMemory:
		return NewMemory(), nil
	default:
		if dir == "" {
			return nil, fmt.Errorf("open json store: no state directory")
		}
		return NewFileStore(dir), nil
	}
}
