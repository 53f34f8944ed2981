package chat

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Registry is the process-local table of live sessions per user identity.
// An identity is present iff it has at least one open session; the entry
// is removed entirely when the last session goes away.
type Registry struct {
	sessions map[string]map[*Session]struct{}
	sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]map[*Session]struct{}),
	}
}

// Register adds a session to the identity's set.
func (r *Registry) Register(email string, sess *Session) {
	r.Lock()
	defer r.Unlock()

	set, ok := r.sessions[email]
	if !ok {
		set = make(map[*Session]struct{})
		r.sessions[email] = set
	}
	set[sess] = struct{}{}

	log.Infof("registry: session %s registered for '%s', local sessions: %d", sess.ID(), email, len(set))
}

// Deregister removes a session from the identity's set and returns the
// number of remaining local sessions. Removing a session that is not
// present is a no-op; the transport-error and close paths may race to
// remove the same session.
func (r *Registry) Deregister(email string, sess *Session) int {
	r.Lock()
	defer r.Unlock()

	set, ok := r.sessions[email]
	if !ok {
		return 0
	}

	delete(set, sess)
	if len(set) == 0 {
		delete(r.sessions, email)
		return 0
	}

	return len(set)
}

// ListFor returns the identity's open sessions, possibly none.
func (r *Registry) ListFor(email string) []*Session {
	r.RLock()
	defer r.RUnlock()

	set := r.sessions[email]
	if len(set) == 0 {
		return nil
	}

	out := make([]*Session, 0, len(set))
	for sess := range set {
		out = append(out, sess)
	}

	return out
}

// Snapshot returns all live sessions of this process.
func (r *Registry) Snapshot() []*Session {
	r.RLock()
	defer r.RUnlock()

	out := make([]*Session, 0)
	for _, set := range r.sessions {
		for sess := range set {
			out = append(out, sess)
		}
	}

	return out
}
