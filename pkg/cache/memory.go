package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps the cache collection in process memory. Used when no
// Redis endpoint is configured, and by tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Read(_ context.Context) (map[string]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Write(_ context.Context, entries map[string]Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry, len(entries))
	for k, v := range entries {
		s.entries[k] = v
	}
	return nil
}
