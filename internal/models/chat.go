package models

import "time"

// Chat types.
const (
	ChatDirect = "1-1"
	ChatGroup  = "group"
)

// Chat represents a conversation, either 1-1 or group.
type Chat struct {
	ID          int       `db:"id" json:"id"`
	Type        string    `db:"type" json:"type"`
	GroupName   string    `db:"group_name" json:"group_name,omitempty"`
	GroupAvatar string    `db:"group_avatar" json:"group_avatar,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Membership is one user's row in a chat: pin/mute flags and the read
// watermark. A NULL watermark means the user has read nothing yet.
type Membership struct {
	ChatID     int        `db:"chat_id" json:"chat_id"`
	UserID     int        `db:"user_id" json:"user_id"`
	IsPinned   bool       `db:"is_pinned" json:"is_pinned"`
	IsMuted    bool       `db:"is_muted" json:"is_muted"`
	LastReadAt *time.Time `db:"last_read_at" json:"last_read_at,omitempty"`
	JoinedAt   time.Time  `db:"joined_at" json:"joined_at"`
}

// ChatSummary is the enriched per-user view of a chat, ready for display.
type ChatSummary struct {
	ChatID             int      `json:"chat_id"`
	Type               string   `json:"type"`
	ParticipantIDs     []int    `json:"participant_ids"`
	GroupName          string   `json:"group_name,omitempty"`
	GroupAvatar        string   `json:"group_avatar,omitempty"`
	LastMessage        *Message `json:"last_message,omitempty"`
	UnreadCount        int      `json:"unread_count"`
	IsPinned           bool     `json:"is_pinned"`
	IsMuted            bool     `json:"is_muted"`
	RelationshipStatus string   `json:"relationship_status"`
}
