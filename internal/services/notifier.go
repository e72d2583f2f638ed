package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/domain/chat"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/redis"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/transport/httpdto"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/logger"
)

const EventNewMessage = "newMessage"

// PushEvent is the envelope written to a user's delivery channel.
type PushEvent struct {
	Event string                  `json:"event"`
	Data  httpdto.MessageResponse `json:"data"`
}

// Notifier hands a freshly stored message to the real-time side. Delivery is
// best effort: implementations must never block the caller or surface errors.
type Notifier interface {
	NotifyNewMessage(recipientID uuid.UUID, msg chat.Message)
}

// RedisNotifier checks the socket registry for a live channel and, if one
// exists, publishes the message to the recipient's pub/sub channel. The
// websocket bridge on whichever node holds the connection does the final hop.
type RedisNotifier struct {
	presence  *redis.PresenceStore
	publisher *redis.Publisher
	log       *logger.Logger
	timeout   time.Duration
}

func NewRedisNotifier(presence *redis.PresenceStore, publisher *redis.Publisher, log *logger.Logger, timeout time.Duration) *RedisNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RedisNotifier{presence: presence, publisher: publisher, log: log, timeout: timeout}
}

func (n *RedisNotifier) NotifyNewMessage(recipientID uuid.UUID, msg chat.Message) {
	// Detached from the request: the send already succeeded by the time this
	// runs, and nothing here may fail it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		_, online, err := n.presence.SocketID(ctx, recipientID.String())
		if err != nil {
			n.log.Warnf("presence lookup failed for %s: %v", recipientID, err)
			return
		}
		if !online {
			return
		}

		payload, err := json.Marshal(PushEvent{
			Event: EventNewMessage,
			Data:  httpdto.FromMessage(msg),
		})
		if err != nil {
			n.log.Errorf("marshal push event: %v", err)
			return
		}

		if err := n.publisher.Publish(ctx, redis.UserChannel(recipientID.String()), payload); err != nil {
			n.log.Warnf("push to %s dropped: %v", recipientID, err)
		}
	}()
}
