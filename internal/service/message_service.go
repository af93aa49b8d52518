package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialhub/internal/domain"
	"socialhub/internal/repository"
)

const recentConversationLimit = 10

// Recipient is the other party of a conversation as shown to the caller.
type Recipient struct {
	ID             int64
	Name           string
	ProfilePicture string
	IsOnline       bool
}

// MessageService covers direct messaging between users.
type MessageService interface {
	Send(ctx context.Context, senderID int64, receiverName, content string) (*domain.Message, error)
	Conversation(ctx context.Context, userID int64, otherName string) ([]domain.Message, Recipient, error)
	Recent(ctx context.Context, userID int64) ([]domain.Conversation, error)
}

type messageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	now      func() time.Time
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository) MessageService {
	return &messageService{
		messages: messages,
		users:    users,
		now:      time.Now,
	}
}

func (s *messageService) Send(ctx context.Context, senderID int64, receiverName, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalid("content is required")
	}

	receiver, err := s.lookupByName(ctx, receiverName)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Content:    content,
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *messageService) Conversation(ctx context.Context, userID int64, otherName string) ([]domain.Message, Recipient, error) {
	other, err := s.lookupByName(ctx, otherName)
	if err != nil {
		return nil, Recipient{}, err
	}

	msgs, err := s.messages.ListBetween(ctx, userID, other.ID)
	if err != nil {
		return nil, Recipient{}, err
	}

	return msgs, Recipient{
		ID:             other.ID,
		Name:           other.Name,
		ProfilePicture: other.ProfilePicture,
		IsOnline:       other.IsOnline(s.now()),
	}, nil
}

func (s *messageService) Recent(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	convs, err := s.messages.RecentConversations(ctx, userID, recentConversationLimit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range convs {
		convs[i].IsOnline = domain.User{LastActiveAt: convs[i].OtherUserLastActiveAt}.IsOnline(now)
	}
	return convs, nil
}

func (s *messageService) lookupByName(ctx context.Context, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("recipient is required")
	}
	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
