package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var (
	ErrRequestNotFound     = errors.New("friend request not found")
	ErrDuplicatePending    = errors.New("pending request already exists")
	ErrRelationshipMissing = errors.New("relationship edge not found")
)

// FriendRepository abstracts friend requests and relationship edges.
type FriendRepository interface {
	CreateRequest(ctx context.Context, fromUserID, toUserID int) (models.FriendRequest, error)
	GetRequest(ctx context.Context, requestID int) (models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID int, status string) error
	ListPendingRequests(ctx context.Context, toUserID int) ([]models.FriendRequest, error)

	GetRelationship(ctx context.Context, userID, relatedUserID int) (*models.Relationship, error)
	UpsertRelationship(ctx context.Context, userID, relatedUserID int, status string) error
	UpdateRelationshipStatus(ctx context.Context, userID, relatedUserID int, status string) error
	DeleteRelationshipPair(ctx context.Context, userID, relatedUserID int) error
	ListRelationships(ctx context.Context, userID int) ([]models.Relationship, error)
	FriendIDs(ctx context.Context, userID int) ([]int, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// CreateRequest inserts a pending request unless one already exists in the
// same direction.
func (r *FriendRepo) CreateRequest(ctx context.Context, fromUserID, toUserID int) (models.FriendRequest, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM friend_requests WHERE from_user_id=$1 AND to_user_id=$2 AND status='pending')`,
		fromUserID, toUserID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if exists {
		return models.FriendRequest{}, ErrDuplicatePending
	}

	var req models.FriendRequest
	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO friend_requests (from_user_id, to_user_id, status) VALUES ($1, $2, 'pending')
        RETURNING id, from_user_id, to_user_id, status, created_at`,
		fromUserID, toUserID).
		Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.Status, &req.CreatedAt)
	return req, err
}

// GetRequest fetches a request by id.
func (r *FriendRepo) GetRequest(ctx context.Context, requestID int) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req,
		`SELECT id, from_user_id, to_user_id, status, created_at FROM friend_requests WHERE id=$1`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrRequestNotFound
	}
	return req, err
}

// UpdateRequestStatus sets the request status.
func (r *FriendRepo) UpdateRequestStatus(ctx context.Context, requestID int, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE friend_requests SET status=$1 WHERE id=$2`, status, requestID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// ListPendingRequests returns pending requests addressed to the user,
// newest first.
func (r *FriendRepo) ListPendingRequests(ctx context.Context, toUserID int) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT id, from_user_id, to_user_id, status, created_at FROM friend_requests
        WHERE to_user_id=$1 AND status='pending' ORDER BY created_at DESC`, toUserID)
	return reqs, err
}

// GetRelationship returns the directed edge or nil when absent.
func (r *FriendRepo) GetRelationship(ctx context.Context, userID, relatedUserID int) (*models.Relationship, error) {
	var rel models.Relationship
	err := r.db.GetContext(ctx, &rel,
		`SELECT user_id, related_user_id, status, created_at FROM relationships WHERE user_id=$1 AND related_user_id=$2`,
		userID, relatedUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// UpsertRelationship creates the directed edge, or leaves an existing edge
// untouched. Re-applying after a partial accept is a no-op.
func (r *FriendRepo) UpsertRelationship(ctx context.Context, userID, relatedUserID int, status string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO relationships (user_id, related_user_id, status) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, related_user_id) DO NOTHING`,
		userID, relatedUserID, status)
	return err
}

// UpdateRelationshipStatus updates one directed edge.
func (r *FriendRepo) UpdateRelationshipStatus(ctx context.Context, userID, relatedUserID int, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE relationships SET status=$1 WHERE user_id=$2 AND related_user_id=$3`,
		status, userID, relatedUserID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRelationshipMissing
	}
	return nil
}

// DeleteRelationshipPair removes both directed edges between two users.
func (r *FriendRepo) DeleteRelationshipPair(ctx context.Context, userID, relatedUserID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM relationships WHERE (user_id=$1 AND related_user_id=$2) OR (user_id=$2 AND related_user_id=$1)`,
		userID, relatedUserID)
	return err
}

// ListRelationships returns all edges originating from the user, newest first.
func (r *FriendRepo) ListRelationships(ctx context.Context, userID int) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := r.db.SelectContext(ctx, &rels,
		`SELECT user_id, related_user_id, status, created_at FROM relationships WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	return rels, err
}

// FriendIDs returns ids of all users the given user has an edge toward.
func (r *FriendRepo) FriendIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT related_user_id FROM relationships WHERE user_id=$1`, userID)
	return ids, err
}
