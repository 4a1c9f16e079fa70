package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/playzo/playzo-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const userColumns = `
	id, username, name, password_hash, is_active, is_superuser, is_moderator,
	created_at, updated_at
`

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, username, name, password_hash, is_active, is_superuser, is_moderator,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		u.ID,
		string(u.Username),
		u.Name,
		u.PasswordHash,
		u.IsActive,
		u.IsSuperuser,
		u.IsModerator,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.conn.QueryRow(ctx, query, id))
}

// GetByUsername returns a user by login name.
func (r *UserRepository) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.conn.QueryRow(ctx, query, string(username)))
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			username = $1,
			name = $2,
			password_hash = $3,
			is_active = $4,
			is_superuser = $5,
			is_moderator = $6,
			updated_at = $7
		WHERE id = $8
	`

	result, err := r.conn.Exec(ctx, query,
		string(u.Username),
		u.Name,
		u.PasswordHash,
		u.IsActive,
		u.IsSuperuser,
		u.IsModerator,
		time.Now().UTC(),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// ExistsByUsername checks whether a username is already taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username user.Username) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		string(username),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var (
		u        user.User
		username string
	)

	err := row.Scan(
		&u.ID,
		&username,
		&u.Name,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsSuperuser,
		&u.IsModerator,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.Username = user.Username(username)
	return &u, nil
}
