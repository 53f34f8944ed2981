package model

import "time"

// Contact is a model of the persistency layer. A row exists per
// (user, contact) pair and carries the acceptance state of the
// relationship.
type Contact struct {
	UserEmail    string
	ContactEmail string
	Accepted     bool
	Blocked      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
