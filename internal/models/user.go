package models

import "time"

// Presence states for a user.
const (
	PresenceOnline  = "online"
	PresenceOffline = "offline"
)

// UserProfile represents a registered user.
type UserProfile struct {
	ID          int        `db:"id" json:"id"`
	Username    string     `db:"username" json:"username"`
	DisplayName string     `db:"display_name" json:"display_name"`
	Avatar      string     `db:"avatar" json:"avatar,omitempty"`
	Bio         string     `db:"bio" json:"bio,omitempty"`
	Status      string     `db:"status" json:"status"`
	LastSeen    *time.Time `db:"last_seen" json:"last_seen,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Preferences holds per-user theme settings, supplied to clients verbatim.
type Preferences struct {
	UserID      int    `db:"user_id" json:"user_id"`
	Theme       string `db:"theme" json:"theme"`
	AccentColor string `db:"accent_color" json:"accent_color"`
	FontFamily  string `db:"font_family" json:"font_family"`
	FontSize    int    `db:"font_size" json:"font_size"`
	BubbleStyle string `db:"bubble_style" json:"bubble_style"`
}
