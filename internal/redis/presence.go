package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PresenceStore is the socket registry: it maps a user ID to the socket ID of
// their currently-connected websocket client, if any. Entries are written on
// connect, removed on disconnect, and expire on their own if a node dies
// without cleaning up.
type PresenceStore struct {
	client *goredis.Client
	ttl    time.Duration
}

const socketKeyPrefix = "socket:"

func NewPresenceStore(client *goredis.Client, ttl time.Duration) *PresenceStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &PresenceStore{client: client, ttl: ttl}
}

// Connect registers userID's live socket. A reconnect overwrites the previous
// entry: one delivery channel per user.
func (p *PresenceStore) Connect(ctx context.Context, userID, socketID string) error {
	return p.client.Set(ctx, socketKeyPrefix+userID, socketID, p.ttl).Err()
}

// Disconnect removes the registry entry, but only if it still belongs to the
// given socket. An entry overwritten by a newer connection is left alone.
var disconnectScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (p *PresenceStore) Disconnect(ctx context.Context, userID, socketID string) error {
	return disconnectScript.Run(ctx, p.client, []string{socketKeyPrefix + userID}, socketID).Err()
}

// Heartbeat refreshes the entry's TTL while the connection stays open.
func (p *PresenceStore) Heartbeat(ctx context.Context, userID string) error {
	return p.client.Expire(ctx, socketKeyPrefix+userID, p.ttl).Err()
}

// SocketID looks up the live channel for userID. The second return value is
// false when the user has no connected client.
func (p *PresenceStore) SocketID(ctx context.Context, userID string) (string, bool, error) {
	socketID, err := p.client.Get(ctx, socketKeyPrefix+userID).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return socketID, true, nil
}
