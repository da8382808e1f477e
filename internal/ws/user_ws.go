package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"social-service/internal/auth"
	"social-service/internal/models"
	"social-service/internal/observability"
	"social-service/internal/presence"
	"social-service/internal/repositories"
)

// UserStreamHandler handles per-user websocket connections. The stream
// carries user-scoped notifications and doubles as the presence heartbeat:
// the user is online while at least one stream connection is alive.
type UserStreamHandler struct {
	hub      *Hub
	tokens   *auth.TokenManager
	presence *presence.Store
	userRepo repositories.UserRepository
}

// NewUserStreamHandler constructs a UserStreamHandler.
func NewUserStreamHandler(hub *Hub, tokens *auth.TokenManager, store *presence.Store, userRepo repositories.UserRepository) *UserStreamHandler {
	return &UserStreamHandler{hub: hub, tokens: tokens, presence: store, userRepo: userRepo}
}

// Handle upgrades the connection and keeps the presence flag alive until
// the client disconnects.
func (h *UserStreamHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("social-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := userIDFromToken(h.tokens, c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddUserClient(userID, conn, info)
	h.markOnline(ctx, userID)

	observability.IncWSActive("user")
	observability.IncWSEvent("user", "ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.users", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload("user", userID, "ws_connect", info, 0, ""),
	}, observability.BuildHeaders(requestID, traceID))

	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveUserClient(userID, conn)
			h.markOffline(userID)
			observability.DecWSActive("user")
			observability.IncWSEvent("user", "ws_disconnect")
			_ = observability.PublishEvent(ctx, "ws_events.users", observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   wsEventPayload("user", userID, "ws_disconnect", info, time.Since(info.ConnectedAt).Milliseconds(), closeReason),
			}, observability.BuildHeaders(requestID, traceID))
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				return
			}
			// any client frame doubles as a heartbeat
			h.markOnline(ctx, userID)
		}
	}()
}

func (h *UserStreamHandler) markOnline(ctx context.Context, userID int) {
	if h.presence == nil {
		return
	}
	if err := h.presence.SetOnline(ctx, userID); err != nil {
		log.Printf("presence online failed: %v", err)
	}
	if h.userRepo != nil {
		if err := h.userRepo.SetPresence(ctx, userID, models.PresenceOnline, time.Now().UTC()); err != nil {
			log.Printf("presence mirror failed: %v", err)
		}
	}
}

func (h *UserStreamHandler) markOffline(userID int) {
	if h.presence == nil {
		return
	}
	// the request context is gone once the socket closes
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.presence.SetOffline(ctx, userID); err != nil {
		log.Printf("presence offline failed: %v", err)
	}
	if h.userRepo != nil {
		if err := h.userRepo.SetPresence(ctx, userID, models.PresenceOffline, time.Now().UTC()); err != nil {
			log.Printf("presence mirror failed: %v", err)
		}
	}
}
