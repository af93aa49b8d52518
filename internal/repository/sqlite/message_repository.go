package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"socialhub/internal/domain"
	"socialhub/internal/repository"
)

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sender_id INTEGER NOT NULL,
	receiver_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	is_read INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	FOREIGN KEY(sender_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY(receiver_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id);
`

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMessagesTable); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	msg.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO messages (sender_id, receiver_id, content, is_read, created_at)
VALUES (?, ?, ?, ?, ?)`,
		msg.SenderID,
		msg.ReceiverID,
		msg.Content,
		msg.IsRead,
		msg.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message last insert id: %w", err)
	}
	msg.ID = id
	return id, nil
}

func (r *MessageRepository) ListBetween(ctx context.Context, userA, userB int64) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT m.id, m.sender_id, m.receiver_id, m.content, m.is_read, m.created_at,
	s.profile_picture, rc.profile_picture
FROM messages m
JOIN users s ON m.sender_id = s.id
JOIN users rc ON m.receiver_id = rc.id
WHERE (m.sender_id = ? AND m.receiver_id = ?)
	OR (m.sender_id = ? AND m.receiver_id = ?)
ORDER BY m.id ASC`,
		userA, userB, userB, userA,
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
		CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS other_user_id,
		MAX(id) AS last_message_id
	FROM messages
	WHERE sender_id = ? OR receiver_id = ?
	GROUP BY other_user_id
)
SELECT u.id, u.name, u.profile_picture, u.last_active_at, m.content, m.sender_id, m.created_at
FROM latest l
JOIN users u ON u.id = l.other_user_id
JOIN messages m ON m.id = l.last_message_id
ORDER BY m.id DESC
LIMIT ?`,
		userID, userID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent conversations: %w", err)
	}
	defer rows.Close()

	return scanConversations(rows)
}

func scanConversations(rows *sql.Rows) ([]domain.Conversation, error) {
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
