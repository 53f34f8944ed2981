// Package wire defines the text messages exchanged with chat clients and
// published on the fanout bus. Everything on the wire is flat JSON.
package wire

import (
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Envelope is a chat message. The "from" field is stamped by the server
// with the authenticated sender identity; whatever the client put there is
// discarded.
type Envelope struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Content string `json:"content"`
}

// StatusEvent announces a presence change of a user to its contacts.
type StatusEvent struct {
	Type   string `json:"type"`
	User   string `json:"user"`
	Status string `json:"status"`
}

// ErrorEvent is a rejection reply to the sending client.
type ErrorEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ParseEnvelope unmarshals an inbound client payload. A payload without a
// recipient is invalid.
func ParseEnvelope(data []byte) (*Envelope, error) {
	env := &Envelope{}
	if err := json.Unmarshal(data, env); err != nil {
		return nil, errors.Wrap(err, "invalid message payload")
	}

	if env.To == "" {
		return nil, errors.New("message payload has no recipient")
	}

	return env, nil
}

func MarshalEnvelope(env *Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func MarshalStatusEvent(user, status string) ([]byte, error) {
	return json.Marshal(&StatusEvent{
		Type:   "status",
		User:   user,
		Status: status,
	})
}

func MarshalErrorEvent(reason string) ([]byte, error) {
	return json.Marshal(&ErrorEvent{
		Type:   "error",
		Reason: reason,
	})
}
