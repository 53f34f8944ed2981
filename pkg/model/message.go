package model

import "time"

// PendingMessage is a model of the persistency layer. One row exists per
// message that could not be delivered because the recipient had no live
// connection anywhere at send time.
type PendingMessage struct {
	Recipient string
	Sender    string
	Content   string
	Timestamp time.Time

	CreatedAt time.Time
}
