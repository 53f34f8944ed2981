package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/brunosprotte/messenger-server-api/pkg/model"
)

func newMailboxStore(db *sqlx.DB) *mailboxStore {
	return &mailboxStore{
		db: db,
	}
}

type mailboxStore struct {
	db *sqlx.DB
}

type sqlDataPendingMessage struct {
	Recipient string    `db:"recipient"`
	Sender    string    `db:"sender"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
	CreatedAt time.Time `db:"created_at"`
}

var sqlParamsPendingMessage = []string{
	"recipient",
	"sender",
	"content",
	"timestamp",
	"created_at",
}

func (d *sqlDataPendingMessage) Scan(m *model.PendingMessage) error {
	var createdAt = m.CreatedAt
	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	d.Recipient = m.Recipient
	d.Sender = m.Sender
	d.Content = m.Content
	d.Timestamp = m.Timestamp
	d.CreatedAt = createdAt

	return nil
}

func (d *sqlDataPendingMessage) Model() (*model.PendingMessage, error) {
	m := &model.PendingMessage{
		Recipient: d.Recipient,
		Sender:    d.Sender,
		Content:   d.Content,
		Timestamp: d.Timestamp,
		CreatedAt: d.CreatedAt,
	}

	return m, nil
}

func (s *mailboxStore) Append(m *model.PendingMessage) error {
	return appendPendingMessage(s.db, m)
}

func (s *mailboxStore) FetchAllForRecipient(recipient string) ([]model.PendingMessage, error) {
	return fetchPendingMessagesForRecipient(s.db, recipient)
}

func (s *mailboxStore) DeleteAllForRecipient(recipient string) error {
	return deletePendingMessagesForRecipient(s.db, recipient)
}

func appendPendingMessage(db *sqlx.DB, m *model.PendingMessage) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	d := sqlDataPendingMessage{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert pending message model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO pending_messages (%s) VALUES (%s)",
		strings.Join(sqlParamsPendingMessage, ", "),
		":"+strings.Join(sqlParamsPendingMessage, ", :"),
	)
	if _, err := db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to append pending message")
	}

	return nil
}

func fetchPendingMessagesForRecipient(db *sqlx.DB, recipient string) ([]model.PendingMessage, error) {
	rows := make([]sqlDataPendingMessage, 0)
	models := make([]model.PendingMessage, 0)

	query := "SELECT * FROM pending_messages WHERE recipient=$1 ORDER BY timestamp ASC"
	if err := db.Select(&rows, query, recipient); err != nil {
		return nil, errors.Wrap(err, "failed to fetch pending messages")
	}

	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert SQL data to pending message model")
		}

		models = append(models, *m)
	}

	return models, nil
}

func deletePendingMessagesForRecipient(db *sqlx.DB, recipient string) error {
	query := "DELETE FROM pending_messages WHERE recipient=$1"
	if _, err := db.Exec(query, recipient); err != nil {
		return errors.Wrap(err, "failed to delete pending messages")
	}

	return nil
}
