package reportlog

import (
	"context"
	"sync"
)

// DefaultCapacity is used when NewInMemoryStore is given a non-positive size.
const DefaultCapacity = 500

// InMemoryStore keeps the most recent entries in a fixed-size ring.
// Thread-safe.
type InMemoryStore struct {
	buf  []*Entry
	next int
	size int
	mu   sync.Mutex
}

// NewInMemoryStore creates a ring holding at most capacity entries
func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryStore{buf: make([]*Entry, capacity)}
}

// Record stores a copy of e, evicting the oldest entry when full
func (s *InMemoryStore) Record(_ context.Context, e *Entry) error {
	stamp(e)
	entryCopy := *e

	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf[s.next] = &entryCopy
	s.next = (s.next + 1) % len(s.buf)
	if s.size < len(s.buf) {
		s.size++
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > s.size {
		limit = s.size
	}

	out := make([]*Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.buf)) % len(s.buf)
		entryCopy := *s.buf[idx]
		out = append(out, &entryCopy)
	}
	return out, nil
}

// Len reports how many entries are held.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}
