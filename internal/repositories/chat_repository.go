package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository abstracts chat and membership persistence.
type ChatRepository interface {
	CreateDirectChat(ctx context.Context, userID, otherUserID int) (models.Chat, bool, error)
	DeleteDirectChat(ctx context.Context, userID, otherUserID int) error
	CreateGroupChat(ctx context.Context, creatorID int, name, avatar string, memberIDs []int) (models.Chat, error)
	GetChat(ctx context.Context, chatID int) (models.Chat, error)
	ParticipantIDs(ctx context.Context, chatID int) ([]int, error)
	IsParticipant(ctx context.Context, chatID, userID int) (bool, error)
	ListMemberships(ctx context.Context, userID int) ([]models.Membership, error)
	MarkRead(ctx context.Context, chatID, userID int, at time.Time) error
	SetPinned(ctx context.Context, chatID, userID int, pinned bool) error
	SetMuted(ctx context.Context, chatID, userID int, muted bool) error
	UnreadCount(ctx context.Context, chatID int, since *time.Time) (int, error)
	LastMessage(ctx context.Context, chatID int) (*models.Message, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateDirectChat returns the existing 1-1 chat between the two users or
// creates it with both participant rows in one transaction. The boolean
// reports whether a new chat was created.
func (r *ChatRepo) CreateDirectChat(ctx context.Context, userID, otherUserID int) (models.Chat, bool, error) {
	if userID == otherUserID {
		return models.Chat{}, false, errors.New("cannot create chat with self")
	}

	var chat models.Chat
	err := r.db.GetContext(ctx, &chat,
		`SELECT c.id, c.type, c.group_name, c.group_avatar, c.created_at FROM chats c
        INNER JOIN chat_participants p1 ON p1.chat_id = c.id AND p1.user_id=$1
        INNER JOIN chat_participants p2 ON p2.chat_id = c.id AND p2.user_id=$2
        WHERE c.type='1-1'`, userID, otherUserID)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO chats (type) VALUES ('1-1') RETURNING id, type, group_name, group_avatar, created_at`).
		Scan(&chat.ID, &chat.Type, &chat.GroupName, &chat.GroupAvatar, &chat.CreatedAt); err != nil {
		return models.Chat{}, false, err
	}

	for _, id := range []int{userID, otherUserID} {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)`, chat.ID, id); err != nil {
			return models.Chat{}, false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Chat{}, false, err
	}
	return chat, true, nil
}

// DeleteDirectChat removes the 1-1 chat shared by the two users, if any.
// Participants and messages go with it through ON DELETE CASCADE. Deleting
// when no chat exists is a no-op so unfriend stays retry safe.
func (r *ChatRepo) DeleteDirectChat(ctx context.Context, userID, otherUserID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM chats WHERE type='1-1' AND id IN (
            SELECT p1.chat_id FROM chat_participants p1
            INNER JOIN chat_participants p2 ON p2.chat_id = p1.chat_id
            WHERE p1.user_id=$1 AND p2.user_id=$2)`, userID, otherUserID)
	return err
}

// CreateGroupChat creates a group chat and its memberships atomically.
func (r *ChatRepo) CreateGroupChat(ctx context.Context, creatorID int, name, avatar string, memberIDs []int) (models.Chat, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var chat models.Chat
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO chats (type, group_name, group_avatar) VALUES ('group', $1, $2)
        RETURNING id, type, group_name, group_avatar, created_at`, name, avatar).
		Scan(&chat.ID, &chat.Type, &chat.GroupName, &chat.GroupAvatar, &chat.CreatedAt); err != nil {
		return models.Chat{}, err
	}

	// ensure creator present and dedupe members
	memberSet := map[int]struct{}{creatorID: {}}
	for _, id := range memberIDs {
		memberSet[id] = struct{}{}
	}
	ids := make([]int, 0, len(memberSet))
	for id := range memberSet {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)`, chat.ID, id); err != nil {
			return models.Chat{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat,
		`SELECT id, type, group_name, group_avatar, created_at FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// ParticipantIDs returns the declared participants of a chat.
func (r *ChatRepo) ParticipantIDs(ctx context.Context, chatID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM chat_participants WHERE chat_id=$1 ORDER BY user_id`, chatID)
	return ids, err
}

// IsParticipant checks whether a user belongs to the chat.
func (r *ChatRepo) IsParticipant(ctx context.Context, chatID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_participants WHERE chat_id=$1 AND user_id=$2)`, chatID, userID)
	return exists, err
}

// ListMemberships returns the caller's membership rows in a deterministic
// order so equal-key chats keep a stable relative position after sorting.
func (r *ChatRepo) ListMemberships(ctx context.Context, userID int) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.SelectContext(ctx, &memberships,
		`SELECT chat_id, user_id, is_pinned, is_muted, last_read_at, joined_at
        FROM chat_participants WHERE user_id=$1 ORDER BY joined_at, chat_id`, userID)
	return memberships, err
}

// MarkRead advances the caller's read watermark. Only the caller's row is
// touched; repeated calls just move the watermark forward.
func (r *ChatRepo) MarkRead(ctx context.Context, chatID, userID int, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE chat_participants SET last_read_at=$1 WHERE chat_id=$2 AND user_id=$3`, at, chatID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrChatNotFound
	}
	return nil
}

// SetPinned toggles the pin flag on the caller's membership.
func (r *ChatRepo) SetPinned(ctx context.Context, chatID, userID int, pinned bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE chat_participants SET is_pinned=$1 WHERE chat_id=$2 AND user_id=$3`, pinned, chatID, userID)
	return err
}

// SetMuted toggles the mute flag on the caller's membership.
func (r *ChatRepo) SetMuted(ctx context.Context, chatID, userID int, muted bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE chat_participants SET is_muted=$1 WHERE chat_id=$2 AND user_id=$3`, muted, chatID, userID)
	return err
}

// UnreadCount counts messages strictly newer than the watermark. A nil
// watermark counts every message in the chat.
func (r *ChatRepo) UnreadCount(ctx context.Context, chatID int, since *time.Time) (int, error) {
	var count int
	if since == nil {
		err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE chat_id=$1`, chatID)
		return count, err
	}
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM messages WHERE chat_id=$1 AND created_at > $2`, chatID, *since)
	return count, err
}

// LastMessage returns the most recent message or nil for an empty chat.
func (r *ChatRepo) LastMessage(ctx context.Context, chatID int) (*models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT id, chat_id, sender_id, type, content, media_url, status, created_at
        FROM messages WHERE chat_id=$1 ORDER BY created_at DESC, id DESC LIMIT 1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
