package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"socialhub/internal/domain"
	"socialhub/internal/repository"
)

// bcrypt ignores input beyond 72 bytes; longer passwords are rejected instead.
const maxPasswordBytes = 72

// reservedNames collide with static path segments under /api/messages.
var reservedNames = map[string]struct{}{
	"recent": {},
}

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateInput changes the caller's own account. Blank fields are left as they are.
type UpdateInput struct {
	Name     string
	Email    string
	Password string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Find returns the user whose name or email equals nameOrEmail exactly.
	Find(ctx context.Context, nameOrEmail string) (*domain.User, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	Lookup(ctx context.Context, ids []int64) ([]domain.UserSummary, error)
}

type userService struct {
	users     repository.UserRepository
	cost      int
	dummyHash []byte
}

// NewUserService builds the service. cost is the bcrypt work factor.
func NewUserService(users repository.UserRepository, cost int) (UserService, error) {
	// Authenticate compares against this hash when the email is unknown, so a
	// miss costs the same bcrypt work as a wrong password.
	dummy, err := bcrypt.GenerateFromPassword([]byte("socialhub-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &userService{
		users:     users,
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	password := in.Password

	if name == "" {
		return nil, invalid("name is required")
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, invalid("email is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, invalid("password is required")
	}
	if len(password) > maxPasswordBytes {
		return nil, invalid(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	exists, err := s.users.ExistsByNameOrEmail(ctx, name, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	// the pre-check above races with concurrent registrations; the store's
	// unique constraints decide
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Find(ctx context.Context, nameOrEmail string) (*domain.User, error) {
	slug := strings.TrimSpace(nameOrEmail)
	if slug == "" {
		return nil, invalid("name or email is required")
	}

	user, err := s.users.GetByName(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.users.GetByEmail(ctx, slug)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Update(ctx context.Context, id int64, in UpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if err := checkName(name); err != nil {
			return nil, err
		}
		user.Name = name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		user.Email = email
	}
	if strings.TrimSpace(in.Password) != "" {
		if len(in.Password) > maxPasswordBytes {
			return nil, invalid(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateAccount
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *userService) Lookup(ctx context.Context, ids []int64) ([]domain.UserSummary, error) {
	if len(ids) == 0 {
		return nil, invalid("at least one valid id is required")
	}
	return s.users.ListSummaries(ctx, ids)
}

func checkName(name string) error {
	if _, ok := reservedNames[strings.ToLower(name)]; ok {
		return invalid(fmt.Sprintf("name %q is reserved", name))
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.PasswordHash = ""
	return &clone
}
