// Package memo provides the process-wide memoization store for computed
// pivots, factor tables and series. Source data is immutable per process, so
// the store is append-only: entries are never invalidated or replaced.
package memo

import "sync"

// Store is a concurrency-safe, append-only cache keyed by the hashable
// string form of (filters, metric selection, phenomenon). Entries are
// immutable once computed, so readers never need a copy.
type Store struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]interface{})}
}

// Get returns the cached entry for a key, if present.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// GetOrCompute returns the cached entry, computing and storing it on first
// use. Failed computations are not cached, so a transient failure in one
// request cannot poison later ones.
func (s *Store) GetOrCompute(key string, compute func() (interface{}, error)) (interface{}, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent request may have filled the key; both computed the same
	// pure value, keep the first.
	if existing, ok := s.entries[key]; ok {
		return existing, nil
	}
	s.entries[key] = v
	return v, nil
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
