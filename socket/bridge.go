package socket

import (
	"context"
	"encoding/json"

	"marque/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const bridgeChannel = "marque.feed"

// envelope wraps a feed message with the publishing instance's identity so
// an instance never replays its own events.
type envelope struct {
	Origin string `json:"origin"`
	Owner  string `json:"owner"`
	Event  Event  `json:"event"`
}

// Bridge fans feed events out across server instances through Redis pub/sub.
// Without it, two instances serving the same owner would each only deliver
// the events they committed themselves.
type Bridge struct {
	rdb *redis.Client
	hub *Hub
	id  string
}

func NewBridge(rdb *redis.Client, hub *Hub) *Bridge {
	return &Bridge{rdb: rdb, hub: hub, id: uuid.NewString()}
}

// Publish sends a locally committed event to the shared channel.
func (b *Bridge) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(envelope{Origin: b.id, Owner: msg.Owner, Event: msg.Event})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, bridgeChannel, payload).Err()
}

// Run subscribes to the shared channel and replays remote events into the
// local hub. It blocks until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, bridgeChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
				logger.Sugar.Errorf("Error unmarshalling bridge envelope: %v", err)
				continue
			}
			if env.Origin == b.id {
				continue
			}
			b.hub.Broadcast <- Message{Owner: env.Owner, Event: env.Event, remote: true}
		}
	}
}
