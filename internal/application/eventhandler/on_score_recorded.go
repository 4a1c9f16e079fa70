// Package eventhandler contains subscribers for domain events.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON SCORE RECORDED HANDLER
// Keeps the cached leaderboards in sync with the primary store. Every score
// or win update refreshes the player's entries in the Redis sorted sets, so
// leaderboard reads stay cheap between full rebuilds.
// ═══════════════════════════════════════════════════════════════════════════

// OnScoreRecordedHandler refreshes the leaderboard cache after counter updates.
type OnScoreRecordedHandler struct {
	playerRepo player.Repository
	cache      player.LeaderboardCache
	logger     *slog.Logger
}

// NewOnScoreRecordedHandler creates a new OnScoreRecordedHandler.
func NewOnScoreRecordedHandler(
	playerRepo player.Repository,
	cache player.LeaderboardCache,
	logger *slog.Logger,
) *OnScoreRecordedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnScoreRecordedHandler{
		playerRepo: playerRepo,
		cache:      cache,
		logger:     logger.With("handler", "on_score_recorded"),
	}
}

// Handle implements shared.EventHandler. It accepts both score and win
// events since both change ranking-relevant counters.
func (h *OnScoreRecordedHandler) Handle(event shared.Event) error {
	switch event.EventType() {
	case shared.EventScoreRecorded, shared.EventWinRecorded:
	default:
		h.logger.Warn("received unexpected event", "event_type", event.EventType())
		return nil
	}

	if h.cache == nil {
		return nil
	}

	ctx := context.Background()
	playerID := event.AggregateID()

	p, err := h.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		h.logger.Error("failed to load player for cache refresh",
			"player_id", playerID,
			"error", err,
		)
		return fmt.Errorf("get player: %w", err)
	}

	if err := h.cache.UpdatePlayer(ctx, p); err != nil {
		// Cache refresh failures are recoverable: the scheduled rebuild
		// repairs any stale entries.
		h.logger.Warn("failed to refresh leaderboard cache",
			"player_id", playerID,
			"error", err,
		)
		return nil
	}

	h.logger.Debug("leaderboard cache refreshed",
		"player_id", playerID,
		"event_type", event.EventType(),
	)

	return nil
}

// EventTypes returns the event types this handler subscribes to.
func (h *OnScoreRecordedHandler) EventTypes() []shared.EventType {
	return []shared.EventType{shared.EventScoreRecorded, shared.EventWinRecorded}
}
