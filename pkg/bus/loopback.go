package bus

import (
	"context"
	"sync"
)

type loopback struct {
	handler DeliveryHandler
	wg      sync.WaitGroup
	closed  bool
	sync.Mutex
}

// NewLoopback creates an in-process Bus. It exists for single-node runs
// and tests; it preserves the fanout contract that the publishing process
// receives its own publishes.
func NewLoopback() Bus {
	return &loopback{}
}

func (b *loopback) Publish(ctx context.Context, recipient string, payload []byte) error {
	b.Lock()
	h := b.handler
	if h == nil || b.closed {
		b.Unlock()
		return nil
	}
	b.wg.Add(1)
	b.Unlock()

	data := make([]byte, len(payload))
	copy(data, payload)

	go func() {
		defer b.wg.Done()
		h(recipient, data)
	}()

	return nil
}

func (b *loopback) Subscribe(h DeliveryHandler) error {
	b.Lock()
	defer b.Unlock()
	b.handler = h
	return nil
}

func (b *loopback) Close() {
	b.Lock()
	b.closed = true
	b.Unlock()
	b.wg.Wait()
}
