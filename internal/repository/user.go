package repository

import (
	"context"
	"errors"
	"time"

	"socialhub/internal/domain"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines persistence operations for User entities.
// Implementations must enforce uniqueness of both name and email.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error)
	ListSummaries(ctx context.Context, ids []int64) ([]domain.UserSummary, error)
	TouchActivity(ctx context.Context, id int64, at time.Time) error
}
