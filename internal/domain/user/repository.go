package user

import "context"

// Repository defines the persistence operations for user accounts.
type Repository interface {
	// Create persists a new user. Returns ErrUserAlreadyExists when the
	// username is taken.
	Create(ctx context.Context, u *User) error

	// GetByID returns a user by internal ID.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername returns a user by login name.
	GetByUsername(ctx context.Context, username Username) (*User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error

	// ExistsByUsername checks whether a username is already taken.
	ExistsByUsername(ctx context.Context, username Username) (bool, error)
}
