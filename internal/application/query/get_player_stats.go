package query

import (
	"context"
	"errors"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PLAYER STATS QUERY
// Returns the derived statistics view for one player. Every derived number
// (win rate, losses, score per game) is computed from the stored counters at
// read time, so the view can never disagree with them.
// ══════════════════════════════════════════════════════════════════════════════

// GetPlayerStatsQuery contains the stats request parameters.
type GetPlayerStatsQuery struct {
	// PlayerID addresses the player directly.
	PlayerID string

	// UserID addresses the player through the owning account. Exactly one
	// of PlayerID or UserID must be set.
	UserID string
}

// Validate validates the query.
func (q GetPlayerStatsQuery) Validate() error {
	if q.PlayerID == "" && q.UserID == "" {
		return errors.New("get_player_stats: player_id or user_id is required")
	}
	return nil
}

// GetPlayerStatsHandler handles stats requests.
type GetPlayerStatsHandler struct {
	playerRepo player.Repository
}

// NewGetPlayerStatsHandler creates a new GetPlayerStatsHandler.
func NewGetPlayerStatsHandler(playerRepo player.Repository) *GetPlayerStatsHandler {
	return &GetPlayerStatsHandler{playerRepo: playerRepo}
}

// Handle executes the stats query.
func (h *GetPlayerStatsHandler) Handle(ctx context.Context, query GetPlayerStatsQuery) (*player.StatsView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		p   *player.Player
		err error
	)
	if query.PlayerID != "" {
		p, err = h.playerRepo.GetByID(ctx, query.PlayerID)
	} else {
		p, err = h.playerRepo.GetByUserID(ctx, query.UserID)
	}
	if err != nil {
		if errors.Is(err, player.ErrPlayerNotFound) {
			return nil, shared.WrapError("player", "GetStats", shared.ErrNotFound, "player not found", err)
		}
		return nil, shared.WrapError("player", "GetStats", shared.ErrExternalService, "failed to load player", err)
	}

	view := player.ComputeStats(p)
	return &view, nil
}
