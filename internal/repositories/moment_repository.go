package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrMomentNotFound = errors.New("moment not found")

// MomentRepository abstracts the moments feed persistence.
type MomentRepository interface {
	CreateMoment(ctx context.Context, moment models.Moment) (models.Moment, error)
	GetMoment(ctx context.Context, momentID int) (models.Moment, error)
	ListFeed(ctx context.Context, viewerID int, friendIDs []int) ([]models.MomentView, error)
	DeleteMoment(ctx context.Context, momentID, ownerID int) error
	UpsertReaction(ctx context.Context, momentID, userID int, emoji string) error
	DeleteReaction(ctx context.Context, momentID, userID int) error
	AddComment(ctx context.Context, momentID, userID int, content string) (models.MomentComment, error)
}

// MomentRepo is a sqlx implementation of MomentRepository.
type MomentRepo struct {
	db *sqlx.DB
}

// NewMomentRepo constructs a MomentRepo.
func NewMomentRepo(db *sqlx.DB) *MomentRepo {
	return &MomentRepo{db: db}
}

// CreateMoment stores a new post.
func (r *MomentRepo) CreateMoment(ctx context.Context, moment models.Moment) (models.Moment, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO moments (user_id, image_url, caption, visibility) VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`,
		moment.UserID, moment.ImageURL, moment.Caption, moment.Visibility).
		Scan(&moment.ID, &moment.CreatedAt)
	return moment, err
}

// GetMoment fetches one post.
func (r *MomentRepo) GetMoment(ctx context.Context, momentID int) (models.Moment, error) {
	var moment models.Moment
	err := r.db.GetContext(ctx, &moment,
		`SELECT id, user_id, image_url, caption, visibility, created_at FROM moments WHERE id=$1`, momentID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Moment{}, ErrMomentNotFound
	}
	return moment, err
}

// ListFeed returns the viewer's feed newest first: their own posts plus
// friends' posts visible to friends, plus public posts from friends.
func (r *MomentRepo) ListFeed(ctx context.Context, viewerID int, friendIDs []int) ([]models.MomentView, error) {
	authorIDs := append([]int{viewerID}, friendIDs...)
	query, args, err := sqlx.In(
		`SELECT id, user_id, image_url, caption, visibility, created_at FROM moments
        WHERE user_id IN (?) AND (visibility IN ('friends', 'public') OR user_id = ?)
        ORDER BY created_at DESC, id DESC`, authorIDs, viewerID)
	if err != nil {
		return nil, err
	}

	var moments []models.Moment
	if err := r.db.SelectContext(ctx, &moments, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	if len(moments) == 0 {
		return []models.MomentView{}, nil
	}

	momentIDs := make([]int, 0, len(moments))
	for _, m := range moments {
		momentIDs = append(momentIDs, m.ID)
	}

	reactionsByMoment, err := r.reactionsFor(ctx, momentIDs)
	if err != nil {
		return nil, err
	}
	commentsByMoment, err := r.commentsFor(ctx, momentIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.MomentView, 0, len(moments))
	for _, m := range moments {
		reactions := reactionsByMoment[m.ID]
		if reactions == nil {
			reactions = []models.MomentReaction{}
		}
		comments := commentsByMoment[m.ID]
		if comments == nil {
			comments = []models.MomentComment{}
		}
		views = append(views, models.MomentView{Moment: m, Reactions: reactions, Comments: comments})
	}
	return views, nil
}

func (r *MomentRepo) reactionsFor(ctx context.Context, momentIDs []int) (map[int][]models.MomentReaction, error) {
	query, args, err := sqlx.In(
		`SELECT moment_id, user_id, emoji, created_at FROM moment_reactions WHERE moment_id IN (?) ORDER BY created_at`, momentIDs)
	if err != nil {
		return nil, err
	}
	var reactions []models.MomentReaction
	if err := r.db.SelectContext(ctx, &reactions, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byMoment := map[int][]models.MomentReaction{}
	for _, reaction := range reactions {
		byMoment[reaction.MomentID] = append(byMoment[reaction.MomentID], reaction)
	}
	return byMoment, nil
}

func (r *MomentRepo) commentsFor(ctx context.Context, momentIDs []int) (map[int][]models.MomentComment, error) {
	query, args, err := sqlx.In(
		`SELECT id, moment_id, user_id, content, created_at FROM moment_comments WHERE moment_id IN (?) ORDER BY created_at`, momentIDs)
	if err != nil {
		return nil, err
	}
	var comments []models.MomentComment
	if err := r.db.SelectContext(ctx, &comments, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byMoment := map[int][]models.MomentComment{}
	for _, comment := range comments {
		byMoment[comment.MomentID] = append(byMoment[comment.MomentID], comment)
	}
	return byMoment, nil
}

// DeleteMoment removes a post owned by the caller.
func (r *MomentRepo) DeleteMoment(ctx context.Context, momentID, ownerID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM moments WHERE id=$1 AND user_id=$2`, momentID, ownerID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMomentNotFound
	}
	return nil
}

// UpsertReaction stores the user's reaction, replacing any previous emoji.
func (r *MomentRepo) UpsertReaction(ctx context.Context, momentID, userID int, emoji string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO moment_reactions (moment_id, user_id, emoji) VALUES ($1, $2, $3)
        ON CONFLICT (moment_id, user_id) DO UPDATE SET emoji=EXCLUDED.emoji, created_at=NOW()`,
		momentID, userID, emoji)
	return err
}

// DeleteReaction removes the user's reaction if present.
func (r *MomentRepo) DeleteReaction(ctx context.Context, momentID, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM moment_reactions WHERE moment_id=$1 AND user_id=$2`, momentID, userID)
	return err
}

// AddComment appends a comment to a moment.
func (r *MomentRepo) AddComment(ctx context.Context, momentID, userID int, content string) (models.MomentComment, error) {
	comment := models.MomentComment{MomentID: momentID, UserID: userID, Content: content}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO moment_comments (moment_id, user_id, content) VALUES ($1, $2, $3) RETURNING id, created_at`,
		momentID, userID, content).
		Scan(&comment.ID, &comment.CreatedAt)
	return comment, err
}
