// Package memory provides a process-local key/value store.
package memory

import (
	"context"
	"slices"
	"sync"

	"whiteboard/internal/ports"
)

// Store keeps records in a map. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ ports.KeyValueStore = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value, or nil when key is absent
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

// Put stores a copy of value
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(value)
	return nil
}

// Delete removes key
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close is a no-op
func (s *Store) Close() error { return nil }
