package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"socialhub/internal/domain"
	"socialhub/internal/repository"
)

const userColumns = `id, name, email, password_hash, profile_picture, profile_banner, last_active_at, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

// Init checks that the users table exists; the schema itself comes from Migrate.
func (r *UserRepository) Init(ctx context.Context) error {
	return checkTable(ctx, r.db, "users")
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (name, email, password_hash, profile_picture, profile_banner)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.ProfilePicture,
		user.ProfileBanner,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return user.ID, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
UPDATE users
SET name = $1, email = $2, password_hash = $3, profile_picture = $4, profile_banner = $5, updated_at = NOW()
WHERE id = $6
RETURNING updated_at`,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.ProfilePicture,
		user.ProfileBanner,
		user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("update user: %w", repository.ErrNotFound)
		case isUniqueViolation(err):
			return fmt.Errorf("update user: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, "delete user")
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name)
	return scanUser(row)
}

func (r *UserRepository) ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE name = $1 OR email = $2)`,
		name, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ListSummaries(ctx context.Context, ids []int64) ([]domain.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, profile_picture FROM users WHERE id = ANY($1) ORDER BY id`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.ProfilePicture); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *UserRepository) TouchActivity(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_active_at = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("touch user activity: %w", err)
	}
	return requireAffected(res, "touch user activity")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user       domain.User
		lastActive sql.NullTime
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ProfilePicture,
		&user.ProfileBanner,
		&lastActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if lastActive.Valid {
		t := lastActive.Time
		user.LastActiveAt = &t
	}
	return &user, nil
}
