package service

import "errors"

var (
	// ErrValidation wraps malformed client input; the wrapped message is safe to show.
	ErrValidation = errors.New("validation error")
	// ErrDuplicateAccount is returned when the name or email is already registered.
	ErrDuplicateAccount = errors.New("user with this name or email already exists")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when a referenced user does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries a client-facing reason and matches ErrValidation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
