package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"socialhub/internal/domain"
	"socialhub/internal/repository"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Init(ctx context.Context) error {
	return checkTable(ctx, r.db, "messages")
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO messages (sender_id, receiver_id, content, is_read)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`,
		msg.SenderID,
		msg.ReceiverID,
		msg.Content,
		msg.IsRead,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	return msg.ID, nil
}

func (r *MessageRepository) ListBetween(ctx context.Context, userA, userB int64) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT m.id, m.sender_id, m.receiver_id, m.content, m.is_read, m.created_at,
	s.profile_picture, rc.profile_picture
FROM messages m
JOIN users s ON m.sender_id = s.id
JOIN users rc ON m.receiver_id = rc.id
WHERE (m.sender_id = $1 AND m.receiver_id = $2)
	OR (m.sender_id = $2 AND m.receiver_id = $1)
ORDER BY m.id ASC`,
		userA, userB,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Content,
			&m.IsRead,
			&m.CreatedAt,
			&m.SenderProfilePicture,
			&m.ReceiverProfilePicture,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MessageRepository) RecentConversations(ctx context.Context, userID int64, limit int) ([]domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
WITH latest AS (
	SELECT
		CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_user_id,
		MAX(id) AS last_message_id
	FROM messages
	WHERE sender_id = $1 OR receiver_id = $1
	GROUP BY 1
)
SELECT u.id, u.name, u.profile_picture, u.last_active_at, m.content, m.sender_id, m.created_at
FROM latest l
JOIN users u ON u.id = l.other_user_id
JOIN messages m ON m.id = l.last_message_id
ORDER BY m.id DESC
LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent conversations: %w", err)
	}
	defer rows.Close()

	var out []domain.Conversation
	for rows.Next() {
		var (
			c          domain.Conversation
			lastActive sql.NullTime
		)
		if err := rows.Scan(
			&c.OtherUserID,
			&c.OtherUserName,
			&c.OtherUserProfilePicture,
			&lastActive,
			&c.LastMessageContent,
			&c.LastMessageSenderID,
			&c.LastMessageAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if lastActive.Valid {
			t := lastActive.Time
			c.OtherUserLastActiveAt = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
