package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"social-service/internal/models"
	"social-service/internal/observability"
)

// Hub maintains active websocket connections: chat rooms for message
// traffic and per-user streams for notifications that are not tied to a
// single chat.
type Hub struct {
	chatRooms    map[int]map[*websocket.Conn]bool
	userStreams  map[int]map[*websocket.Conn]bool
	chatConnInfo map[int]map[*websocket.Conn]ConnInfo
	userConnInfo map[int]map[*websocket.Conn]ConnInfo
	mu           sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		chatRooms:    make(map[int]map[*websocket.Conn]bool),
		userStreams:  make(map[int]map[*websocket.Conn]bool),
		chatConnInfo: make(map[int]map[*websocket.Conn]ConnInfo),
		userConnInfo: make(map[int]map[*websocket.Conn]ConnInfo),
	}
}

// AddChatClient registers a websocket connection to a chat room.
func (h *Hub) AddChatClient(chatID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.chatRooms[chatID]; !ok {
		h.chatRooms[chatID] = make(map[*websocket.Conn]bool)
	}
	h.chatRooms[chatID][conn] = true
	if _, ok := h.chatConnInfo[chatID]; !ok {
		h.chatConnInfo[chatID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.chatConnInfo[chatID][conn] = info
}

// RemoveChatClient removes a chat websocket connection.
func (h *Hub) RemoveChatClient(chatID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.chatRooms[chatID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.chatRooms, chatID)
		}
	}
	if infos, ok := h.chatConnInfo[chatID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.chatConnInfo, chatID)
		}
	}
}

// BroadcastChatMessage sends a new message to all clients in a chat.
func (h *Hub) BroadcastChatMessage(chatID int, msg models.Message) {
	h.broadcastChat(chatID, models.ChatEvent{Type: "message", Message: &msg})
}

// BroadcastStatusUpdate notifies chat clients that a message moved to a new
// delivery status.
func (h *Hub) BroadcastStatusUpdate(chatID, messageID int, status string) {
	h.broadcastChat(chatID, models.ChatEvent{Type: "status", MessageID: messageID, Status: status})
}

func (h *Hub) broadcastChat(chatID int, event models.ChatEvent) {
	h.mu.RLock()
	conns := h.chatRooms[chatID]
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.RemoveChatClient(chatID, conn)
			h.publishWSError("chat", chatID, conn, err)
		}
	}
}

// AddUserClient registers a websocket connection on the user's stream.
func (h *Hub) AddUserClient(userID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userStreams[userID]; !ok {
		h.userStreams[userID] = make(map[*websocket.Conn]bool)
	}
	h.userStreams[userID][conn] = true
	if _, ok := h.userConnInfo[userID]; !ok {
		h.userConnInfo[userID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.userConnInfo[userID][conn] = info
}

// RemoveUserClient removes a user stream connection.
func (h *Hub) RemoveUserClient(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.userStreams[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userStreams, userID)
		}
	}
	if infos, ok := h.userConnInfo[userID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.userConnInfo, userID)
		}
	}
}

// NotifyUser pushes an event to every open stream of a single user. Used
// for friend request activity, geofence alerts and similar user-scoped
// notifications.
func (h *Hub) NotifyUser(userID int, event any) {
	h.mu.RLock()
	conns := h.userStreams[userID]
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.RemoveUserClient(userID, conn)
			h.publishWSError("user", userID, conn, err)
		}
	}
}

func (h *Hub) publishWSError(kind string, resourceID int, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(kind, resourceID, conn)
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        kind,
			"resource_id": resourceID,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent(kind, "ws_error")
}

func (h *Hub) getConnInfo(kind string, resourceID int, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if kind == "chat" {
		if infos, ok := h.chatConnInfo[resourceID]; ok {
			info, exists := infos[conn]
			return info, exists
		}
		return ConnInfo{}, false
	}
	if infos, ok := h.userConnInfo[resourceID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}

func wsRoutingKey(kind string) string {
	if kind == "user" {
		return "ws_events.users"
	}
	return "ws_events.chats"
}
