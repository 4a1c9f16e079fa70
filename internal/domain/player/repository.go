package player

import (
	"context"
)

// ListOptions controls pagination for bulk reads.
type ListOptions struct {
	// Limit is the maximum number of records to return (0 = no limit).
	Limit int

	// Offset is the number of records to skip.
	Offset int
}

// Repository defines the persistence operations for players.
// Implementations must apply Mutate as an atomic read-modify-write against a
// single record so concurrent score submissions for the same player cannot
// lose updates.
type Repository interface {
	// Create persists a new player. Returns ErrPlayerAlreadyExists when the
	// owning user already has a player record.
	Create(ctx context.Context, p *Player) error

	// GetByID returns a player by internal ID.
	GetByID(ctx context.Context, id string) (*Player, error)

	// GetByUserID returns the player owned by the given user account.
	GetByUserID(ctx context.Context, userID string) (*Player, error)

	// GetByEmail returns a player by email.
	GetByEmail(ctx context.Context, email string) (*Player, error)

	// Update persists profile changes for an existing player.
	Update(ctx context.Context, p *Player) error

	// Mutate loads the player with a per-record write lock, applies fn, and
	// persists the result in the same transaction. When fn returns an error
	// the transaction is rolled back and nothing is written.
	Mutate(ctx context.Context, id string, fn func(*Player) error) (*Player, error)

	// ListAll returns all players for leaderboard and ranking scans.
	ListAll(ctx context.Context) ([]*Player, error)

	// List returns players with pagination.
	List(ctx context.Context, opts ListOptions) ([]*Player, error)

	// Count returns the total number of players.
	Count(ctx context.Context) (int, error)

	// Delete removes a player record.
	Delete(ctx context.Context, id string) error
}
