package models

import "time"

// Location is one row of a user's append-only location history. Ghost rows
// are recorded but never served to friends.
type Location struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Accuracy  *float64  `db:"accuracy" json:"accuracy,omitempty"`
	Address   string    `db:"address" json:"address,omitempty"`
	Ghost     bool      `db:"ghost" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Geofence is a named circular region owned by one user.
type Geofence struct {
	ID        int       `db:"id" json:"id"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Radius    float64   `db:"radius" json:"radius"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FriendLocation is a friend's latest visible location plus the distance
// from the caller, in meters.
type FriendLocation struct {
	Location
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}
