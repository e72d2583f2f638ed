package websocket

import (
	"context"

	redisstore "github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/redis"
)

// RedisBridge forwards pub/sub payloads from user channels to locally
// connected clients. Each node runs one bridge; publishes from any node reach
// whichever node holds the recipient's socket.
type RedisBridge struct {
	subscriber *redisstore.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber *redisstore.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{redisstore.UserChannel("*")}, func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
