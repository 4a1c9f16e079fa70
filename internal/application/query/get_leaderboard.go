// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Returns the top-N players ordered by a sort criterion. Reads go through the
// cached ranking source when one is wired; the repository is the fallback.
// ══════════════════════════════════════════════════════════════════════════════

// RankingSource serves precomputed leaderboard slices, typically from Redis.
type RankingSource interface {
	// Top returns up to limit ranked players for the criterion.
	Top(ctx context.Context, criterion player.SortCriterion, limit int) ([]player.RankedPlayer, error)
}

// GetLeaderboardQuery contains the leaderboard request parameters.
type GetLeaderboardQuery struct {
	// SortBy is the raw criterion string; unknown values fall back to
	// total_score rather than failing.
	SortBy string

	// Limit is the number of entries (default 20, maximum 100).
	Limit int
}

// LeaderboardEntryDTO is a single leaderboard row.
type LeaderboardEntryDTO struct {
	// Rank - position in the ranking, starting at 1.
	Rank int `json:"rank"`

	// PlayerID - internal ID of the player.
	PlayerID string `json:"player_id"`

	// DisplayName - name shown on the leaderboard.
	DisplayName string `json:"display_name"`

	// TotalScore - accumulated score across all games.
	TotalScore int `json:"total_score"`

	// HighScore - best single-game score.
	HighScore int `json:"high_score"`

	// GamesPlayed - number of recorded games.
	GamesPlayed int `json:"games_played"`

	// GamesWon - number of recorded wins.
	GamesWon int `json:"games_won"`

	// AverageScore - mean score per game.
	AverageScore float64 `json:"average_score"`

	// Tier - rank tier derived from total score.
	Tier string `json:"tier"`
}

// GetLeaderboardResult contains the leaderboard response.
type GetLeaderboardResult struct {
	// Entries - the ranked rows.
	Entries []LeaderboardEntryDTO `json:"entries"`

	// SortBy - the criterion actually used after normalization.
	SortBy string `json:"sort_by"`

	// TotalCount - total number of players known to the system.
	TotalCount int `json:"total_count"`

	// GeneratedAt - when the result was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLeaderboardHandler handles leaderboard requests.
type GetLeaderboardHandler struct {
	playerRepo    player.Repository
	rankingSource RankingSource
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
func NewGetLeaderboardHandler(playerRepo player.Repository, rankingSource RankingSource) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		playerRepo:    playerRepo,
		rankingSource: rankingSource,
	}
}

// Handle executes the leaderboard query.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, query GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	criterion := player.ParseSortCriterion(query.SortBy)
	limit := player.ClampLimit(query.Limit)

	ranked, err := h.topRanked(ctx, criterion, limit)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrExternalService, "failed to load leaderboard", err)
	}

	totalCount, err := h.playerRepo.Count(ctx)
	if err != nil {
		totalCount = len(ranked)
	}

	entries := make([]LeaderboardEntryDTO, len(ranked))
	for i, r := range ranked {
		entries[i] = toEntryDTO(r)
	}

	return &GetLeaderboardResult{
		Entries:     entries,
		SortBy:      string(criterion),
		TotalCount:  totalCount,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// topRanked prefers the cached ranking source and recomputes from the
// repository when the cache is unavailable or empty.
func (h *GetLeaderboardHandler) topRanked(
	ctx context.Context,
	criterion player.SortCriterion,
	limit int,
) ([]player.RankedPlayer, error) {
	if h.rankingSource != nil {
		ranked, err := h.rankingSource.Top(ctx, criterion, limit)
		if err == nil && len(ranked) > 0 {
			return ranked, nil
		}
	}

	players, err := h.playerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return player.Rankings(players, criterion)[:min(limit, len(players))], nil
}

func toEntryDTO(r player.RankedPlayer) LeaderboardEntryDTO {
	return LeaderboardEntryDTO{
		Rank:         r.Position,
		PlayerID:     r.Player.ID,
		DisplayName:  r.Player.DisplayName,
		TotalScore:   r.Player.TotalScore,
		HighScore:    r.Player.HighScore,
		GamesPlayed:  r.Player.GamesPlayed,
		GamesWon:     r.Player.GamesWon,
		AverageScore: r.Player.AverageScore,
		Tier:         string(r.Player.Tier()),
	}
}
