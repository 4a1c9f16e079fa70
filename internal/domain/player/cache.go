package player

import "context"

// LeaderboardCache keeps precomputed ranking slices hot so leaderboard reads
// do not touch the primary store. Implementations live in infrastructure.
type LeaderboardCache interface {
	// UpdatePlayer refreshes a single player's entries in every criterion.
	UpdatePlayer(ctx context.Context, p *Player) error

	// Rebuild replaces the cached rankings from a full snapshot.
	Rebuild(ctx context.Context, players []*Player) error

	// Top returns up to limit ranked players for the criterion.
	Top(ctx context.Context, criterion SortCriterion, limit int) ([]RankedPlayer, error)

	// Invalidate drops all cached rankings.
	Invalidate(ctx context.Context) error
}
