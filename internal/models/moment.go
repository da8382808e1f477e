package models

import "time"

// Moment visibility levels.
const (
	VisibilityFriends  = "friends"
	VisibilitySelected = "selected"
	VisibilityPublic   = "public"
)

// Moment is a photo post in the moments feed.
type Moment struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	Caption    string    `db:"caption" json:"caption,omitempty"`
	Visibility string    `db:"visibility" json:"visibility"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// MomentReaction is one user's emoji reaction; re-reacting replaces it.
type MomentReaction struct {
	MomentID  int       `db:"moment_id" json:"moment_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MomentComment is a comment under a moment.
type MomentComment struct {
	ID        int       `db:"id" json:"id"`
	MomentID  int       `db:"moment_id" json:"moment_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MomentView bundles a moment with its reactions and comments for the feed.
type MomentView struct {
	Moment
	Reactions []MomentReaction `json:"reactions"`
	Comments  []MomentComment  `json:"comments"`
}
