package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	redisstore "github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/redis"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/services"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/transport/httpdto"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/logger"
)

const (
	readWait      = 60 * time.Second
	heartbeatTick = 30 * time.Second
)

type Handler struct {
	verifier *services.TokenVerifier
	hub      *Hub
	presence *redisstore.PresenceStore
	log      *logger.Logger
}

func NewHandler(verifier *services.TokenVerifier, hub *Hub, presence *redisstore.PresenceStore, log *logger.Logger) *Handler {
	return &Handler{verifier: verifier, hub: hub, presence: presence, log: log}
}

// Connect handles GET /ws. The connection doubles as the user's presence
// entry: registered on upgrade, removed when the read loop ends.
func (h *Handler) Connect(c *gin.Context) {
	claims, err := h.verifier.ParseAccessToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized"))
		return
	}
	userID := claims.UserID

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, userID, redisstore.UserChannel(userID))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := h.presence.Connect(ctx, userID, client.ID); err != nil {
		h.log.Warnf("presence connect failed for %s: %v", userID, err)
	}

	h.hub.Register(client)
	go client.WriteLoop(ctx)
	go h.heartbeatLoop(ctx, userID)

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
	}

	h.hub.Unregister(client)
	if err := h.presence.Disconnect(context.Background(), userID, client.ID); err != nil {
		h.log.Warnf("presence disconnect failed for %s: %v", userID, err)
	}
}

func (h *Handler) heartbeatLoop(ctx context.Context, userID string) {
	ticker := time.NewTicker(heartbeatTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.presence.Heartbeat(ctx, userID); err != nil {
				h.log.Warnf("presence heartbeat failed for %s: %v", userID, err)
			}
		}
	}
}
