package query

import (
	"context"
	"time"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RANKINGS QUERY
// Returns every player with an explicit 1-based position under a criterion.
// Unlike the leaderboard this is not truncated; it backs the full standings
// page and the per-player "your rank" lookup.
// ══════════════════════════════════════════════════════════════════════════════

// GetRankingsQuery contains the rankings request parameters.
type GetRankingsQuery struct {
	// SortBy is the raw criterion string; unknown values fall back to
	// total_score.
	SortBy string

	// PlayerID optionally narrows the result to a single player's row.
	PlayerID string
}

// GetRankingsResult contains the rankings response.
type GetRankingsResult struct {
	// Entries - every player in rank order.
	Entries []LeaderboardEntryDTO `json:"entries"`

	// SortBy - the criterion actually used after normalization.
	SortBy string `json:"sort_by"`

	// GeneratedAt - when the result was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetRankingsHandler handles rankings requests.
type GetRankingsHandler struct {
	playerRepo player.Repository
}

// NewGetRankingsHandler creates a new GetRankingsHandler.
func NewGetRankingsHandler(playerRepo player.Repository) *GetRankingsHandler {
	return &GetRankingsHandler{playerRepo: playerRepo}
}

// Handle executes the rankings query.
func (h *GetRankingsHandler) Handle(ctx context.Context, query GetRankingsQuery) (*GetRankingsResult, error) {
	criterion := player.ParseSortCriterion(query.SortBy)

	players, err := h.playerRepo.ListAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetRankings", shared.ErrExternalService, "failed to load players", err)
	}

	ranked := player.Rankings(players, criterion)

	if query.PlayerID != "" {
		for _, r := range ranked {
			if r.Player.ID == query.PlayerID {
				ranked = []player.RankedPlayer{r}
				break
			}
		}
	}

	entries := make([]LeaderboardEntryDTO, len(ranked))
	for i, r := range ranked {
		entries[i] = toEntryDTO(r)
	}

	return &GetRankingsResult{
		Entries:     entries,
		SortBy:      string(criterion),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
