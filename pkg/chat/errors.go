package chat

import "fmt"

const ErrReasonNotAuthorized string = "ERR_NOT_AUTHORIZED"
const ErrReasonInvalidPayload string = "ERR_INVALID_PAYLOAD"
const ErrReasonInvalidToken string = "ERR_INVALID_TOKEN"

// AuthorizationError is returned when the relationship between sender and
// recipient does not permit routing: the contact record is absent, not
// accepted, or blocked.
type AuthorizationError struct {
	Sender    string
	Recipient string
}

func NewAuthorizationError(sender, recipient string) error {
	return &AuthorizationError{
		Sender:    sender,
		Recipient: recipient,
	}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("routing denied: '%s' may not message '%s'", e.Sender, e.Recipient)
}

func IsAuthorizationError(e error) bool {
	_, ok := e.(*AuthorizationError)
	return ok
}
