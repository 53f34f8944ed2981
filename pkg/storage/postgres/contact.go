package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/brunosprotte/messenger-server-api/pkg/model"
	"github.com/brunosprotte/messenger-server-api/pkg/storage"
)

func newContactStore(db *sqlx.DB) *contactStore {
	return &contactStore{
		db: db,
	}
}

type contactStore struct {
	db *sqlx.DB
}

type sqlDataContact struct {
	UserEmail    string    `db:"user_email"`
	ContactEmail string    `db:"contact_email"`
	Accepted     bool      `db:"accepted"`
	Blocked      bool      `db:"blocked"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

var sqlParamsContact = []string{
	"user_email",
	"contact_email",
	"accepted",
	"blocked",
	"created_at",
	"updated_at",
}

func (d *sqlDataContact) Scan(m *model.Contact) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	d.UserEmail = m.UserEmail
	d.ContactEmail = m.ContactEmail
	d.Accepted = m.Accepted
	d.Blocked = m.Blocked
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataContact) Model() (*model.Contact, error) {
	m := &model.Contact{
		UserEmail:    d.UserEmail,
		ContactEmail: d.ContactEmail,
		Accepted:     d.Accepted,
		Blocked:      d.Blocked,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}

	return m, nil
}

func (s *contactStore) FindByUserAndContact(userEmail, contactEmail string) (*model.Contact, error) {
	return findContactByUserAndContact(s.db, userEmail, contactEmail)
}

func (s *contactStore) ListContactsOf(userEmail string) ([]string, error) {
	return listContactsOfUser(s.db, userEmail)
}

func (s *contactStore) Create(m *model.Contact) error {
	return createContact(s.db, m)
}

func findContactByUserAndContact(db *sqlx.DB, userEmail, contactEmail string) (*model.Contact, error) {
	d := sqlDataContact{}
	query := "SELECT * FROM contacts WHERE user_email=$1 AND contact_email=$2"
	if err := db.Get(&d, query, userEmail, contactEmail); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find contact")
	}

	return d.Model()
}

func listContactsOfUser(db *sqlx.DB, userEmail string) ([]string, error) {
	contacts := make([]string, 0)

	query := "SELECT contact_email FROM contacts WHERE user_email=$1"
	if err := db.Select(&contacts, query, userEmail); err != nil {
		return nil, errors.Wrap(err, "failed to list contacts")
	}

	return contacts, nil
}

func createContact(db *sqlx.DB, m *model.Contact) error {
	d := sqlDataContact{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert contact model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO contacts (%s) VALUES (%s)",
		strings.Join(sqlParamsContact, ", "),
		":"+strings.Join(sqlParamsContact, ", :"),
	)
	if _, err := db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create contact")
	}

	return nil
}
