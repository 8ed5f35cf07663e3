package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a mutex-guarded fixed-window counter map. Expired entries
// are evicted opportunistically: with small random probability a check also
// sweeps the whole map, so memory stays bounded without a timer goroutine.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry

	// now is swappable for tests.
	now func() time.Time

	// sweepOneIn is the inverse probability of a sweep per check.
	sweepOneIn int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]*entry),
		now:        time.Now,
		sweepOneIn: 100,
	}
}

func (s *MemoryStore) Check(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if s.sweepOneIn > 0 && rand.Intn(s.sweepOneIn) == 0 {
		s.sweepLocked(now)
	}

	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = e
		return Decision{Allowed: true, Remaining: limit - 1, ResetAt: e.resetAt}, nil
	}

	if e.count >= limit {
		return Decision{Allowed: false, Remaining: 0, ResetAt: e.resetAt}, nil
	}

	e.count++
	return Decision{Allowed: true, Remaining: limit - e.count, ResetAt: e.resetAt}, nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
		}
	}
}

// Len reports the number of tracked clients. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
