package redis

// UserChannel is the pub/sub channel carrying real-time events for one user.
// Every node's websocket bridge subscribes to channel:user:* and forwards
// matching payloads to its locally connected clients.
func UserChannel(userID string) string {
	return "channel:user:" + userID
}
