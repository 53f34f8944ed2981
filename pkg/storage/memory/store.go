package memory

import "github.com/brunosprotte/messenger-server-api/pkg/storage"

// store contains all memory-based sub-stores for managing the persistent models
type store struct {
	mailbox  *mailboxStore
	contacts *contactStore
}

// NewStore creates a new memory-based Storage interface
func NewStore() storage.Interface {
	return &store{
		mailbox:  newMailboxStore(),
		contacts: newContactStore(),
	}
}

// Mailbox returns a sub-store for managing the PendingMessage model
func (s *store) Mailbox() storage.MailboxStore {
	return s.mailbox
}

// Contacts returns a sub-store for managing the Contact model
func (s *store) Contacts() storage.ContactStore {
	return s.contacts
}
