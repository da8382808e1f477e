package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository abstracts user profile persistence.
type UserRepository interface {
	GetUser(ctx context.Context, userID int) (models.UserProfile, error)
	EnsureUser(ctx context.Context, username, displayName string) (models.UserProfile, error)
	BulkUsers(ctx context.Context, ids []int) ([]models.UserProfile, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]models.UserProfile, error)
	SetPresence(ctx context.Context, userID int, status string, lastSeen time.Time) error
	GetPreferences(ctx context.Context, userID int) (models.Preferences, error)
	UpsertPreferences(ctx context.Context, prefs models.Preferences) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser fetches a profile by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.GetContext(ctx, &user, `SELECT id, username, display_name, avatar, bio, status, last_seen, created_at FROM user_profiles WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, ErrUserNotFound
	}
	return user, err
}

// EnsureUser returns the profile for the username, creating it on first
// sight. The upsert keeps concurrent first logins race free.
func (r *UserRepo) EnsureUser(ctx context.Context, username, displayName string) (models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.GetContext(ctx, &user,
		`INSERT INTO user_profiles (username, display_name) VALUES ($1, $2)
        ON CONFLICT (username) DO UPDATE SET username=EXCLUDED.username
        RETURNING id, username, display_name, avatar, bio, status, last_seen, created_at`,
		username, displayName)
	return user, err
}

// BulkUsers fetches multiple profiles in one query.
func (r *UserRepo) BulkUsers(ctx context.Context, ids []int) ([]models.UserProfile, error) {
	if len(ids) == 0 {
		return []models.UserProfile{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, username, display_name, avatar, bio, status, last_seen, created_at FROM user_profiles WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var users []models.UserProfile
	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, err
}

// SearchUsers matches usernames and display names case-insensitively.
func (r *UserRepo) SearchUsers(ctx context.Context, query string, limit int) ([]models.UserProfile, error) {
	if limit <= 0 {
		limit = 20
	}
	var users []models.UserProfile
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, username, display_name, avatar, bio, status, last_seen, created_at FROM user_profiles
        WHERE username ILIKE $1 OR display_name ILIKE $1
        ORDER BY username LIMIT $2`, "%"+query+"%", limit)
	return users, err
}

// SetPresence mirrors the presence store into the profile row.
func (r *UserRepo) SetPresence(ctx context.Context, userID int, status string, lastSeen time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE user_profiles SET status=$1, last_seen=$2 WHERE id=$3`, status, lastSeen, userID)
	return err
}

// GetPreferences returns the user's theme settings, falling back to defaults.
func (r *UserRepo) GetPreferences(ctx context.Context, userID int) (models.Preferences, error) {
	var prefs models.Preferences
	err := r.db.GetContext(ctx, &prefs, `SELECT user_id, theme, accent_color, font_family, font_size, bubble_style FROM user_preferences WHERE user_id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Preferences{
			UserID:      userID,
			Theme:       "light",
			AccentColor: "pink",
			FontFamily:  "system",
			FontSize:    16,
			BubbleStyle: "round",
		}, nil
	}
	return prefs, err
}

// UpsertPreferences stores the user's theme settings.
func (r *UserRepo) UpsertPreferences(ctx context.Context, prefs models.Preferences) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_preferences (user_id, theme, accent_color, font_family, font_size, bubble_style)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE SET theme=EXCLUDED.theme, accent_color=EXCLUDED.accent_color,
            font_family=EXCLUDED.font_family, font_size=EXCLUDED.font_size, bubble_style=EXCLUDED.bubble_style`,
		prefs.UserID, prefs.Theme, prefs.AccentColor, prefs.FontFamily, prefs.FontSize, prefs.BubbleStyle)
	return err
}
