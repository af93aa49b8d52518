package repository

import (
	"context"

	"socialhub/internal/domain"
)

// MessageRepository persists direct messages between users.
type MessageRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, msg *domain.Message) (int64, error)
	ListBetween(ctx context.Context, userA, userB int64) ([]domain.Message, error)
	RecentConversations(ctx context.Context, userID int64, limit int) ([]domain.Conversation, error)
}
