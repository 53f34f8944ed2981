package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"to":"bob@example.com","content":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", env.To)
	assert.Equal(t, "hi", env.Content)
	assert.Empty(t, env.From)
}

func TestParseEnvelopeRejectsGarbage(t *testing.T) {
	_, err := ParseEnvelope([]byte("not json"))
	assert.Error(t, err)
}

func TestParseEnvelopeRejectsMissingRecipient(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"content":"hi"}`))
	assert.Error(t, err)
}

func TestMarshalStatusEvent(t *testing.T) {
	data, err := MarshalStatusEvent("alice@example.com", StatusOnline)
	require.NoError(t, err)

	event := StatusEvent{}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "status", event.Type)
	assert.Equal(t, "alice@example.com", event.User)
	assert.Equal(t, "online", event.Status)
}

func TestMarshalErrorEvent(t *testing.T) {
	data, err := MarshalErrorEvent("ERR_NOT_AUTHORIZED")
	require.NoError(t, err)

	event := ErrorEvent{}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "error", event.Type)
	assert.Equal(t, "ERR_NOT_AUTHORIZED", event.Reason)
}
