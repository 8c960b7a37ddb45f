package store

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process backend. It keeps the state encoded so every Load
// returns an independent copy.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

// Load decodes a fresh copy of the state.
func (m *Memory) Load() (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Memory) load() (*State, error) {
	if m.data == nil {
		return NewState(), nil
	}
	var st State
	if err := json.Unmarshal(m.data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	st.init()
	return &st, nil
}

// Update applies fn to a copy and keeps it only when fn succeeds.
func (m *Memory) Update(fn func(st *State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.load()
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	m.data = data
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
