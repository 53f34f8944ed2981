package redisps

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/brunosprotte/messenger-server-api/pkg/bus"
)

const channelPrefix = "chat:"

type redisAdapter struct {
	rdb    *redis.Client
	pubsub *redis.PubSub
	doneCh chan struct{}
}

// New creates a Bus backed by redis pub/sub. Messages for a recipient
// travel on the channel "chat:<recipient>"; every process pattern-
// subscribes to "chat:*".
func New(rdb *redis.Client) bus.Bus {
	return &redisAdapter{
		rdb:    rdb,
		doneCh: make(chan struct{}),
	}
}

func (a *redisAdapter) Publish(ctx context.Context, recipient string, payload []byte) error {
	return a.rdb.Publish(ctx, channelPrefix+recipient, payload).Err()
}

func (a *redisAdapter) Subscribe(h bus.DeliveryHandler) error {
	a.pubsub = a.rdb.PSubscribe(context.Background(), channelPrefix+"*")

	// Force the subscription to be established before we report success.
	if _, err := a.pubsub.Receive(context.Background()); err != nil {
		return err
	}

	go func() {
		defer close(a.doneCh)
		for msg := range a.pubsub.Channel() {
			h(strings.TrimPrefix(msg.Channel, channelPrefix), []byte(msg.Payload))
		}
	}()

	return nil
}

func (a *redisAdapter) Close() {
	if a.pubsub == nil {
		return
	}
	if err := a.pubsub.Close(); err != nil {
		log.Errorf("bus: failed to close redis subscription: %v", err)
	}
	<-a.doneCh
}
