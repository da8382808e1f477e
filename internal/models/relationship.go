package models

import "time"

// Relationship statuses. A user with no edge toward another is a stranger.
const (
	RelationshipStranger = "stranger"
	RelationshipFriend   = "friend"
	RelationshipCouple   = "couple"
)

// Friend request statuses.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Relationship is a directed edge between two users. Accepting a friend
// request writes both directions; upgrades and downgrades touch both rows.
type Relationship struct {
	UserID        int       `db:"user_id" json:"user_id"`
	RelatedUserID int       `db:"related_user_id" json:"related_user_id"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FriendRequest is a pending one-directional request.
type FriendRequest struct {
	ID         int       `db:"id" json:"id"`
	FromUserID int       `db:"from_user_id" json:"from_user_id"`
	ToUserID   int       `db:"to_user_id" json:"to_user_id"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FriendRequestWithSender pairs a request with the sender's profile for
// API responses.
type FriendRequestWithSender struct {
	FriendRequest
	From UserProfile `json:"from_user"`
}

// Friend pairs a relationship edge with the related user's profile.
type Friend struct {
	Relationship
	User UserProfile `json:"user"`
}
