package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrStatusRegression = errors.New("message status cannot move backwards")
)

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID, senderID int, msgType, content, mediaURL string) (models.Message, error)
	ListMessages(ctx context.Context, chatID int, limit int) ([]models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	AdvanceStatus(ctx context.Context, messageID int, status string) (models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message. Messages enter persistence as 'sent';
// 'sending' only ever exists client-side.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID, senderID int, msgType, content, mediaURL string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (chat_id, sender_id, type, content, media_url, status) VALUES ($1, $2, $3, $4, $5, 'sent')
        RETURNING id, chat_id, sender_id, type, content, media_url, status, created_at`,
		chatID, senderID, msgType, content, mediaURL).
		Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Type, &msg.Content, &msg.MediaURL, &msg.Status, &msg.CreatedAt)
	return msg, err
}

// ListMessages returns chat messages oldest first.
func (r *MessageRepo) ListMessages(ctx context.Context, chatID int, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, sender_id, type, content, media_url, status, created_at
        FROM messages WHERE chat_id=$1 ORDER BY created_at ASC, id ASC LIMIT $2`, chatID, limit)
	return msgs, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT id, chat_id, sender_id, type, content, media_url, status, created_at FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// AdvanceStatus moves the delivery status forward. Regressions are rejected
// so sent→delivered→seen stays monotonic per message.
func (r *MessageRepo) AdvanceStatus(ctx context.Context, messageID int, status string) (models.Message, error) {
	msg, err := r.GetMessage(ctx, messageID)
	if err != nil {
		return models.Message{}, err
	}
	if models.StatusRank(status) < 0 || models.StatusRank(status) < models.StatusRank(msg.Status) {
		return models.Message{}, ErrStatusRegression
	}
	if status == msg.Status {
		return msg, nil
	}
	err = r.db.QueryRowxContext(ctx,
		`UPDATE messages SET status=$1 WHERE id=$2
        RETURNING id, chat_id, sender_id, type, content, media_url, status, created_at`, status, messageID).
		Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Type, &msg.Content, &msg.MediaURL, &msg.Status, &msg.CreatedAt)
	return msg, err
}
