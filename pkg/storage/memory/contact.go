package memory

import (
	"sync"
	"time"

	"github.com/brunosprotte/messenger-server-api/pkg/model"
	"github.com/brunosprotte/messenger-server-api/pkg/storage"
)

type contactKey struct {
	userEmail    string
	contactEmail string
}

type contactStore struct {
	store map[contactKey]model.Contact
	sync.RWMutex
}

func newContactStore() *contactStore {
	return &contactStore{
		store: make(map[contactKey]model.Contact),
	}
}

func (s *contactStore) FindByUserAndContact(userEmail, contactEmail string) (*model.Contact, error) {
	s.RLock()
	defer s.RUnlock()

	if m, ok := s.store[contactKey{userEmail, contactEmail}]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *contactStore) ListContactsOf(userEmail string) ([]string, error) {
	s.RLock()
	defer s.RUnlock()

	contacts := make([]string, 0)
	for k := range s.store {
		if k.userEmail == userEmail {
			contacts = append(contacts, k.contactEmail)
		}
	}

	return contacts, nil
}

func (s *contactStore) Create(m *model.Contact) error {
	s.Lock()
	defer s.Unlock()

	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = time.Now().Round(time.Second).UTC()

	s.store[contactKey{m.UserEmail, m.ContactEmail}] = *m

	return nil
}
