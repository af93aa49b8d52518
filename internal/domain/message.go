package domain

import "time"

// Message is a direct message between two users.
type Message struct {
	ID                     int64
	SenderID               int64
	ReceiverID             int64
	Content                string
	IsRead                 bool
	CreatedAt              time.Time
	SenderProfilePicture   string
	ReceiverProfilePicture string
}

// Conversation summarises the latest exchange with another user.
type Conversation struct {
	OtherUserID             int64
	OtherUserName           string
	OtherUserProfilePicture string
	OtherUserLastActiveAt   *time.Time
	IsOnline                bool
	LastMessageContent      string
	LastMessageSenderID     int64
	LastMessageAt           time.Time
}
