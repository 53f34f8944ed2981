package natsio

import (
	"context"
	"strings"

	nats "github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/brunosprotte/messenger-server-api/pkg/bus"
)

// Identities contain dots (they are email addresses), which would split
// into multiple NATS subject tokens. The adapter therefore publishes on
// "chat.<identity>" and subscribes with the multi-token wildcard "chat.>".
const subjectPrefix = "chat."

type natsAdapter struct {
	nc  *nats.Conn
	sub *nats.Subscription
}

// New creates a Bus backed by a NATS connection. Every router process
// subscribes to the full chat subject space; queue groups are deliberately
// not used because every process must see every publish.
func New(nc *nats.Conn) bus.Bus {
	return &natsAdapter{
		nc: nc,
	}
}

func (a *natsAdapter) Publish(ctx context.Context, recipient string, payload []byte) error {
	return a.nc.Publish(subjectPrefix+recipient, payload)
}

func (a *natsAdapter) Subscribe(h bus.DeliveryHandler) error {
	sub, err := a.nc.Subscribe(subjectPrefix+">", func(msg *nats.Msg) {
		h(strings.TrimPrefix(msg.Subject, subjectPrefix), msg.Data)
	})
	if err != nil {
		return err
	}

	a.sub = sub
	return nil
}

func (a *natsAdapter) Close() {
	if a.sub != nil {
		if err := a.sub.Unsubscribe(); err != nil {
			log.Errorf("bus: failed to unsubscribe from chat subjects: %v", err)
		}
	}
}
