package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(id string) *Session {
	return &Session{
		id:       id,
		closedCh: make(chan struct{}),
	}
}

func TestRegistryRegisterAndListFor(t *testing.T) {
	r := NewRegistry()
	s1 := newTestSession("s1")
	s2 := newTestSession("s2")

	r.Register("alice@example.com", s1)
	r.Register("alice@example.com", s2)

	sessions := r.ListFor("alice@example.com")
	require.Len(t, sessions, 2)
	assert.Contains(t, sessions, s1)
	assert.Contains(t, sessions, s2)

	assert.Nil(t, r.ListFor("bob@example.com"))
}

func TestRegistryDeregisterRemovesEmptyEntry(t *testing.T) {
	r := NewRegistry()
	s1 := newTestSession("s1")
	s2 := newTestSession("s2")

	r.Register("alice@example.com", s1)
	r.Register("alice@example.com", s2)

	remaining := r.Deregister("alice@example.com", s1)
	assert.Equal(t, 1, remaining)

	remaining = r.Deregister("alice@example.com", s2)
	assert.Equal(t, 0, remaining)

	// The entry is gone entirely, not left as an empty set.
	r.RLock()
	_, ok := r.sessions["alice@example.com"]
	r.RUnlock()
	assert.False(t, ok)
}

func TestRegistryDeregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	s1 := newTestSession("s1")

	r.Register("alice@example.com", s1)

	assert.Equal(t, 0, r.Deregister("alice@example.com", s1))
	assert.Equal(t, 0, r.Deregister("alice@example.com", s1))
	assert.Equal(t, 0, r.Deregister("nobody@example.com", s1))
	assert.Nil(t, r.ListFor("alice@example.com"))
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()

	r.Register("alice@example.com", newTestSession("s1"))
	r.Register("bob@example.com", newTestSession("s2"))
	r.Register("bob@example.com", newTestSession("s3"))

	assert.Len(t, r.Snapshot(), 3)
}
