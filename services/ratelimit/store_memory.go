package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowEntry struct {
	count     int
	resetTime time.Time
}

// MemoryStore is a process-local fixed-window counter. Expired entries are
// evicted on read. Limits held here do not span multiple server instances;
// use RedisStore for that.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewMemoryStore builds an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Increment bumps the counter for an identifier within its current window.
func (s *MemoryStore) Increment(_ context.Context, identifier string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[identifier]
	if !ok || !now.Before(entry.resetTime) {
		entry = &windowEntry{count: 0, resetTime: now.Add(window)}
		s.entries[identifier] = entry
	}
	entry.count++
	return entry.count, entry.resetTime, nil
}

// Sweep drops all expired entries. Called periodically so identifiers seen
// once do not accumulate forever.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.entries {
		if !now.Before(entry.resetTime) {
			delete(s.entries, id)
		}
	}
}
