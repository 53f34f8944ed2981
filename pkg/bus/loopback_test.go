package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackDeliversOwnPublishes(t *testing.T) {
	b := NewLoopback()

	type delivery struct {
		recipient string
		payload   string
	}

	deliveries := make(chan delivery, 1)
	require.NoError(t, b.Subscribe(func(recipient string, payload []byte) {
		deliveries <- delivery{recipient, string(payload)}
	}))

	require.NoError(t, b.Publish(context.Background(), "bob@example.com", []byte("hi")))

	select {
	case d := <-deliveries:
		assert.Equal(t, "bob@example.com", d.recipient)
		assert.Equal(t, "hi", d.payload)
	case <-time.After(time.Second):
		t.Fatal("publish was not delivered")
	}
}

func TestLoopbackPublishWithoutSubscriberIsDropped(t *testing.T) {
	b := NewLoopback()
	assert.NoError(t, b.Publish(context.Background(), "bob@example.com", []byte("hi")))
	b.Close()
}

func TestLoopbackCloseWaitsForInFlightDeliveries(t *testing.T) {
	b := NewLoopback()

	var mu sync.Mutex
	delivered := 0
	require.NoError(t, b.Subscribe(func(recipient string, payload []byte) {
		mu.Lock()
		delivered++
		mu.Unlock()
	}))

	for i := 0; i < 10; i++ {
		require.NoError(t, b.Publish(context.Background(), "bob@example.com", []byte("hi")))
	}

	b.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, delivered)
}
