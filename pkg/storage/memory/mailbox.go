package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/brunosprotte/messenger-server-api/pkg/model"
)

type mailboxStore struct {
	store map[string][]model.PendingMessage
	sync.RWMutex
}

func newMailboxStore() *mailboxStore {
	return &mailboxStore{
		store: make(map[string][]model.PendingMessage),
	}
}

func (s *mailboxStore) Append(m *model.PendingMessage) error {
	s.Lock()
	defer s.Unlock()

	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()

	s.store[m.Recipient] = append(s.store[m.Recipient], *m)

	return nil
}

func (s *mailboxStore) FetchAllForRecipient(recipient string) ([]model.PendingMessage, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.PendingMessage, len(s.store[recipient]))
	copy(models, s.store[recipient])

	sort.Slice(models, func(i, j int) bool {
		return models[i].Timestamp.Before(models[j].Timestamp)
	})

	return models, nil
}

func (s *mailboxStore) DeleteAllForRecipient(recipient string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.store, recipient)

	return nil
}
