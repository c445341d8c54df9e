package sequence

import (
	"context"
	"sync"
	"time"
)

// Counter is the last value issued for a key.
type Counter struct {
	Value    int64
	IssuedAt time.Time
}

// AdvanceFunc computes the next counter from the current one. found is
// false when the key has never been issued.
type AdvanceFunc func(current Counter, found bool) (Counter, error)

// CounterStore persists counters. Advance must run fn and store its result
// atomically per key.
type CounterStore interface {
	Advance(ctx context.Context, key string, fn AdvanceFunc) (Counter, error)
}

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]Counter
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]Counter)}
}

func (s *MemoryStore) Advance(ctx context.Context, key string, fn AdvanceFunc) (Counter, error) {
	if err := ctx.Err(); err != nil {
		return Counter{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, found := s.counters[key]
	next, err := fn(current, found)
	if err != nil {
		return Counter{}, err
	}
	s.counters[key] = next
	return next, nil
}
