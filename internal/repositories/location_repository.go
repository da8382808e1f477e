package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrGeofenceNotFound = errors.New("geofence not found")

// LocationRepository abstracts the append-only location history and
// geofence persistence. Separate lat/lng columns keep the schema portable
// and Haversine-friendly.
type LocationRepository interface {
	AppendLocation(ctx context.Context, loc models.Location) (models.Location, error)
	LatestVisibleLocation(ctx context.Context, userID int) (*models.Location, error)
	LatestVisibleLocations(ctx context.Context, userIDs []int) ([]models.Location, error)

	CreateGeofence(ctx context.Context, fence models.Geofence) (models.Geofence, error)
	ListGeofences(ctx context.Context, ownerID int) ([]models.Geofence, error)
	DeleteGeofence(ctx context.Context, geofenceID, ownerID int) error
}

// LocationRepo is a sqlx implementation of LocationRepository.
type LocationRepo struct {
	db *sqlx.DB
}

// NewLocationRepo constructs a LocationRepo.
func NewLocationRepo(db *sqlx.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// AppendLocation records a new history row. Rows are never updated in
// place; the current location is always a read-time derivation.
func (r *LocationRepo) AppendLocation(ctx context.Context, loc models.Location) (models.Location, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO locations (user_id, latitude, longitude, accuracy, address, ghost) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`,
		loc.UserID, loc.Latitude, loc.Longitude, loc.Accuracy, loc.Address, loc.Ghost).
		Scan(&loc.ID, &loc.CreatedAt)
	return loc, err
}

// LatestVisibleLocation returns the most recent non-ghost row for the user,
// or nil when the user has never shared a visible location.
func (r *LocationRepo) LatestVisibleLocation(ctx context.Context, userID int) (*models.Location, error) {
	var loc models.Location
	err := r.db.GetContext(ctx, &loc,
		`SELECT id, user_id, latitude, longitude, accuracy, address, ghost, created_at
        FROM locations WHERE user_id=$1 AND ghost=FALSE ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// LatestVisibleLocations returns each user's latest non-ghost row.
func (r *LocationRepo) LatestVisibleLocations(ctx context.Context, userIDs []int) ([]models.Location, error) {
	if len(userIDs) == 0 {
		return []models.Location{}, nil
	}
	query, args, err := sqlx.In(
		`SELECT DISTINCT ON (user_id) id, user_id, latitude, longitude, accuracy, address, ghost, created_at
        FROM locations WHERE user_id IN (?) AND ghost=FALSE ORDER BY user_id, created_at DESC, id DESC`, userIDs)
	if err != nil {
		return nil, err
	}
	var locs []models.Location
	err = r.db.SelectContext(ctx, &locs, r.db.Rebind(query), args...)
	return locs, err
}

// CreateGeofence stores a fence for its owner.
func (r *LocationRepo) CreateGeofence(ctx context.Context, fence models.Geofence) (models.Geofence, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO geofences (owner_id, name, latitude, longitude, radius, enabled) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`,
		fence.OwnerID, fence.Name, fence.Latitude, fence.Longitude, fence.Radius, fence.Enabled).
		Scan(&fence.ID, &fence.CreatedAt)
	return fence, err
}

// ListGeofences returns the owner's fences.
func (r *LocationRepo) ListGeofences(ctx context.Context, ownerID int) ([]models.Geofence, error) {
	var fences []models.Geofence
	err := r.db.SelectContext(ctx, &fences,
		`SELECT id, owner_id, name, latitude, longitude, radius, enabled, created_at
        FROM geofences WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	return fences, err
}

// DeleteGeofence removes a fence owned by the caller.
func (r *LocationRepo) DeleteGeofence(ctx context.Context, geofenceID, ownerID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM geofences WHERE id=$1 AND owner_id=$2`, geofenceID, ownerID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrGeofenceNotFound
	}
	return nil
}
