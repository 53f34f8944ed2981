package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunosprotte/messenger-server-api/pkg/model"
	"github.com/brunosprotte/messenger-server-api/pkg/storage"
)

func TestContactFindByUserAndContact(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Contacts().Create(&model.Contact{
		UserEmail:    "alice@example.com",
		ContactEmail: "bob@example.com",
		Accepted:     true,
	}))

	m, err := s.Contacts().FindByUserAndContact("alice@example.com", "bob@example.com")
	require.NoError(t, err)
	assert.True(t, m.Accepted)
	assert.False(t, m.Blocked)

	// The pair is directional.
	_, err = s.Contacts().FindByUserAndContact("bob@example.com", "alice@example.com")
	assert.Equal(t, storage.ErrNotFound, err)
}

func TestContactListContactsOf(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Contacts().Create(&model.Contact{
		UserEmail:    "alice@example.com",
		ContactEmail: "bob@example.com",
	}))
	require.NoError(t, s.Contacts().Create(&model.Contact{
		UserEmail:    "alice@example.com",
		ContactEmail: "carol@example.com",
	}))
	require.NoError(t, s.Contacts().Create(&model.Contact{
		UserEmail:    "bob@example.com",
		ContactEmail: "alice@example.com",
	}))

	contacts, err := s.Contacts().ListContactsOf("alice@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob@example.com", "carol@example.com"}, contacts)

	contacts, err = s.Contacts().ListContactsOf("nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, contacts)
}
