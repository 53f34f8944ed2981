package storage

import "github.com/brunosprotte/messenger-server-api/pkg/model"

// Interface is implemented by the storage
type Interface interface {
	Mailbox() MailboxStore
	Contacts() ContactStore
}

// MailboxStore is responsible for managing the PendingMessage model. It is
// the durable backend of the offline mailbox: one row per undelivered
// message, keyed by (recipient, timestamp).
type MailboxStore interface {
	Append(m *model.PendingMessage) error
	FetchAllForRecipient(recipient string) ([]model.PendingMessage, error)
	DeleteAllForRecipient(recipient string) error
}

// ContactStore is responsible for managing the Contact model
type ContactStore interface {
	FindByUserAndContact(userEmail, contactEmail string) (*model.Contact, error)
	ListContactsOf(userEmail string) ([]string, error)
	Create(m *model.Contact) error
}
