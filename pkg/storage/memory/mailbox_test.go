package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunosprotte/messenger-server-api/pkg/model"
)

func TestMailboxAppendAndFetchOrderedByTimestamp(t *testing.T) {
	s := NewStore()

	base := time.Now().UTC()
	require.NoError(t, s.Mailbox().Append(&model.PendingMessage{
		Recipient: "bob@example.com",
		Sender:    "alice@example.com",
		Content:   "second",
		Timestamp: base.Add(time.Second),
	}))
	require.NoError(t, s.Mailbox().Append(&model.PendingMessage{
		Recipient: "bob@example.com",
		Sender:    "alice@example.com",
		Content:   "first",
		Timestamp: base,
	}))
	require.NoError(t, s.Mailbox().Append(&model.PendingMessage{
		Recipient: "carol@example.com",
		Sender:    "alice@example.com",
		Content:   "other recipient",
		Timestamp: base,
	}))

	pending, err := s.Mailbox().FetchAllForRecipient("bob@example.com")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "first", pending[0].Content)
	assert.Equal(t, "second", pending[1].Content)
}

func TestMailboxDeleteAllForRecipient(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Mailbox().Append(&model.PendingMessage{
		Recipient: "bob@example.com",
		Sender:    "alice@example.com",
		Content:   "hi",
	}))
	require.NoError(t, s.Mailbox().Append(&model.PendingMessage{
		Recipient: "carol@example.com",
		Sender:    "alice@example.com",
		Content:   "hi",
	}))

	require.NoError(t, s.Mailbox().DeleteAllForRecipient("bob@example.com"))

	pending, err := s.Mailbox().FetchAllForRecipient("bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Other recipients are untouched.
	pending, err = s.Mailbox().FetchAllForRecipient("carol@example.com")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestMailboxAppendFillsTimestamp(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Mailbox().Append(&model.PendingMessage{
		Recipient: "bob@example.com",
		Sender:    "alice@example.com",
		Content:   "hi",
	}))

	pending, err := s.Mailbox().FetchAllForRecipient("bob@example.com")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.False(t, pending[0].Timestamp.IsZero())
}
