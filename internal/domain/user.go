package domain

import "time"

// OnlineWindow is how recent last activity must be for a user to count as online.
const OnlineWindow = 2 * time.Minute

// User represents a registered member of the network.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	ProfilePicture string
	ProfileBanner  string
	LastActiveAt   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOnline reports whether the user was active within OnlineWindow of now.
func (u User) IsOnline(now time.Time) bool {
	if u.LastActiveAt == nil {
		return false
	}
	return now.Sub(*u.LastActiveAt) < OnlineWindow
}

// UserSummary is the trimmed-down view used in user lookups by id list.
type UserSummary struct {
	ID             int64
	Name           string
	ProfilePicture string
}
