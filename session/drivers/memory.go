package drivers

import (
	"context"
	"sync"

	"github.com/creastat/cart/session"
)

// InMemoryStore implements session.Store using an in-memory map.
// Values are copied on the way in and out so callers never share buffers.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewInMemoryStore creates a new in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string][]byte),
	}
}

// Get implements session.Store.
// Returns nil if the key is not found (not an error).
func (s *InMemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sessions == nil {
		return nil, session.ErrClosed
	}
	data, exists := s.sessions[key]
	if !exists {
		return nil, nil // Not found
	}
	return clone(data), nil
}

// Put implements session.Store.
func (s *InMemoryStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions == nil {
		return session.ErrClosed
	}
	s.sessions[key] = clone(value)
	return nil
}

// Has implements session.Store.
func (s *InMemoryStore) Has(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sessions == nil {
		return false, session.ErrClosed
	}
	_, exists := s.sessions[key]
	return exists, nil
}

// Remove implements session.Store.
func (s *InMemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions == nil {
		return session.ErrClosed
	}
	delete(s.sessions, key)
	return nil
}

// Close implements session.Store.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Compile-time check that InMemoryStore implements session.Store.
var _ session.Store = (*InMemoryStore)(nil)
