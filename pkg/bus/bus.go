package bus

import "context"

// DeliveryHandler is invoked on every subscribing process for every
// publish, including the publishing process itself. The recipient is the
// routing key the payload was published under.
type DeliveryHandler func(recipient string, payload []byte)

// Bus is the publish/subscribe fanout between router processes, keyed by
// recipient identity. Publishes are fire-and-forget: delivery to any given
// process is best-effort and unordered relative to other publishes.
type Bus interface {
	Publish(ctx context.Context, recipient string, payload []byte) error
	Subscribe(h DeliveryHandler) error
	Close()
}
