package http

import (
	"context"
	"time"

	"socialhub/internal/domain"
	"socialhub/internal/service"
)

// AccountResponse is the caller's own account.
type AccountResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	ProfilePicture string  `json:"profile_picture"`
	ProfileBanner  string  `json:"profile_banner"`
	LastActiveAt   *string `json:"last_active_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// ProfileResponse is what other users may see.
type ProfileResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
	ProfileBanner  string `json:"profile_banner"`
	IsOnline       bool   `json:"is_online"`
	CreatedAt      string `json:"created_at"`
}

type UserSummaryResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}

type MessageResponse struct {
	ID                     int64  `json:"id"`
	SenderID               int64  `json:"sender_id"`
	ReceiverID             int64  `json:"receiver_id"`
	Content                string `json:"content"`
	IsRead                 bool   `json:"is_read"`
	CreatedAt              string `json:"created_at"`
	SenderProfilePicture   string `json:"sender_profile_picture,omitempty"`
	ReceiverProfilePicture string `json:"receiver_profile_picture,omitempty"`
}

type RecipientResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
	IsOnline       bool   `json:"is_online"`
}

type ConversationResponse struct {
	OtherUserID             int64  `json:"other_user_id"`
	OtherUserName           string `json:"other_user_name"`
	OtherUserProfilePicture string `json:"other_user_profile_picture"`
	IsOnline                bool   `json:"is_online"`
	LastMessageContent      string `json:"last_message_content"`
	LastMessageSender       int64  `json:"last_message_sender"`
	LastMessageAt           string `json:"last_message_at"`
}

func (h *Handler) accountToResponse(ctx context.Context, u *domain.User) AccountResponse {
	resp := AccountResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: h.objectURL(ctx, u.ProfilePicture),
		ProfileBanner:  h.objectURL(ctx, u.ProfileBanner),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastActiveAt != nil {
		v := u.LastActiveAt.Format(time.RFC3339)
		resp.LastActiveAt = &v
	}
	return resp
}

func (h *Handler) profileToResponse(ctx context.Context, u *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:             u.ID,
		Name:           u.Name,
		ProfilePicture: h.objectURL(ctx, u.ProfilePicture),
		ProfileBanner:  h.objectURL(ctx, u.ProfileBanner),
		IsOnline:       u.IsOnline(time.Now()),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) messageToResponse(ctx context.Context, m domain.Message) MessageResponse {
	return MessageResponse{
		ID:                     m.ID,
		SenderID:               m.SenderID,
		ReceiverID:             m.ReceiverID,
		Content:                m.Content,
		IsRead:                 m.IsRead,
		CreatedAt:              m.CreatedAt.Format(time.RFC3339),
		SenderProfilePicture:   h.objectURL(ctx, m.SenderProfilePicture),
		ReceiverProfilePicture: h.objectURL(ctx, m.ReceiverProfilePicture),
	}
}

func (h *Handler) recipientToResponse(ctx context.Context, r service.Recipient) RecipientResponse {
	return RecipientResponse{
		ID:             r.ID,
		Name:           r.Name,
		ProfilePicture: h.objectURL(ctx, r.ProfilePicture),
		IsOnline:       r.IsOnline,
	}
}

func (h *Handler) conversationToResponse(ctx context.Context, c domain.Conversation) ConversationResponse {
	return ConversationResponse{
		OtherUserID:             c.OtherUserID,
		OtherUserName:           c.OtherUserName,
		OtherUserProfilePicture: h.objectURL(ctx, c.OtherUserProfilePicture),
		IsOnline:                c.IsOnline,
		LastMessageContent:      c.LastMessageContent,
		LastMessageSender:       c.LastMessageSenderID,
		LastMessageAt:           c.LastMessageAt.Format(time.RFC3339),
	}
}
