package presence

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count    int64
	deadline time.Time
}

type memoryStore struct {
	store map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
	sync.Mutex
}

// NewMemoryStore creates a process-local Store. It is only suitable for
// single-process deployments and tests; multi-process setups need the
// redis backend.
func NewMemoryStore(ttl time.Duration) Store {
	return newMemoryStore(ttl, time.Now)
}

func newMemoryStore(ttl time.Duration, now func() time.Time) *memoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{
		store: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   now,
	}
}

func (s *memoryStore) Connected(ctx context.Context, email string) (int64, error) {
	s.Lock()
	defer s.Unlock()

	e := s.store[email]
	if e.count > 0 && s.now().After(e.deadline) {
		// The previous owner died without disconnecting. Start over.
		e = memoryEntry{}
	}

	e.count++
	e.deadline = s.now().Add(s.ttl)
	s.store[email] = e

	return e.count, nil
}

func (s *memoryStore) Disconnected(ctx context.Context, email string) (int64, error) {
	s.Lock()
	defer s.Unlock()

	e := s.store[email]
	e.count--
	if e.count <= 0 {
		delete(s.store, email)
		return 0, nil
	}

	e.deadline = s.now().Add(s.ttl)
	s.store[email] = e

	return e.count, nil
}

func (s *memoryStore) IsOnline(ctx context.Context, email string) (bool, error) {
	s.Lock()
	defer s.Unlock()

	e, ok := s.store[email]
	if !ok {
		return false, nil
	}

	if s.now().After(e.deadline) {
		delete(s.store, email)
		return false, nil
	}

	return e.count > 0, nil
}
