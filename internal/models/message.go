package models

import "time"

// Message types.
const (
	MessageText    = "text"
	MessageImage   = "image"
	MessageVideo   = "video"
	MessageVoice   = "voice"
	MessageFile    = "file"
	MessageSticker = "sticker"
)

// Delivery statuses, monotonic per message.
const (
	StatusSending   = "sending"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusSeen      = "seen"
)

// Message represents a chat message.
type Message struct {
	ID        int       `db:"id" json:"id"`
	ChatID    int       `db:"chat_id" json:"chat_id"`
	SenderID  int       `db:"sender_id" json:"sender_id"`
	Type      string    `db:"type" json:"type"`
	Content   string    `db:"content" json:"content"`
	MediaURL  string    `db:"media_url" json:"media_url,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StatusRank orders delivery statuses so updates can be kept monotonic.
func StatusRank(status string) int {
	switch status {
	case StatusSending:
		return 0
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusSeen:
		return 3
	default:
		return -1
	}
}

// ChatEvent is broadcasted through websockets.
type ChatEvent struct {
	Type      string   `json:"type"`
	Message   *Message `json:"message,omitempty"`
	MessageID int      `json:"message_id,omitempty"`
	Status    string   `json:"status,omitempty"`
}
