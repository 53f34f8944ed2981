package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/brunosprotte/messenger-server-api/pkg/storage"
)

// store contains all PostgreSQL based sub-stores for managing the models
type store struct {
	mailbox  *mailboxStore
	contacts *contactStore
}

// NewStore creates a new PostgreSQL based Storage interface
func NewStore(db *sqlx.DB) storage.Interface {
	return &store{
		mailbox:  newMailboxStore(db),
		contacts: newContactStore(db),
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
