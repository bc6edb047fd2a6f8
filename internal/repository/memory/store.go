// Package memory holds a small generic map guarded by a RWMutex. The
// repository adapters in the parent package build on it and layer their
// own error vocabulary on top, so lookups here report presence with a
// bool instead of an error.
package memory

import "sync"

// Store keeps values indexed by a key derived from the value itself.
type Store[V any] struct {
	mu    sync.RWMutex
	key   func(V) string
	byKey map[string]V
}

// New returns an empty Store whose entries are keyed by key(v).
func New[V any](key func(V) string) *Store[V] {
	return &Store[V]{key: key, byKey: make(map[string]V)}
}

// Set inserts v, replacing any previous value with the same key.
func (s *Store[V]) Set(v V) {
	s.mu.Lock()
	s.byKey[s.key(v)] = v
	s.mu.Unlock()
}

// Get looks up a value by key.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byKey[key]
	return v, ok
}

// Delete removes the entry for key and reports whether it existed.
func (s *Store[V]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byKey[key]
	delete(s.byKey, key)
	return ok
}

// Has reports whether key is present.
func (s *Store[V]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byKey[key]
	return ok
}

// All returns every stored value in map order.
func (s *Store[V]) All() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]V, 0, len(s.byKey))
	for _, v := range s.byKey {
		out = append(out, v)
	}
	return out
}

// Filter returns the values for which keep is true.
func (s *Store[V]) Filter(keep func(V) bool) []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []V
	for _, v := range s.byKey {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
