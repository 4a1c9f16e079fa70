package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD WIN COMMAND
// Marks an already recorded game as won. The win counter can never overtake
// the games counter, so a win without a prior game is rejected.
// ══════════════════════════════════════════════════════════════════════════════

// RecordWinCommand contains the data to record a win.
type RecordWinCommand struct {
	// PlayerID is the internal ID of the player.
	PlayerID string

	// WonAt is when the win happened (defaults to now if zero).
	WonAt time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RecordWinCommand) Validate() error {
	if c.PlayerID == "" {
		return errors.New("record_win: player_id is required")
	}
	return nil
}

// RecordWinResult contains the player state after the update.
type RecordWinResult struct {
	// PlayerID is the internal ID of the player.
	PlayerID string

	// GamesWon is the win counter after the update.
	GamesWon int

	// GamesPlayed is the games counter, unchanged by this command.
	GamesPlayed int

	// WinRate is the wins-to-games percentage after the update.
	WinRate float64

	// RecordedAt is when the win was recorded.
	RecordedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordWinHandler handles the RecordWinCommand.
type RecordWinHandler struct {
	playerRepo player.Repository
	eventBus   shared.EventBus
}

// NewRecordWinHandler creates a new RecordWinHandler.
func NewRecordWinHandler(playerRepo player.Repository, eventBus shared.EventBus) *RecordWinHandler {
	return &RecordWinHandler{
		playerRepo: playerRepo,
		eventBus:   eventBus,
	}
}

// Handle executes the record win command.
func (h *RecordWinHandler) Handle(ctx context.Context, cmd RecordWinCommand) (*RecordWinResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_win: validation failed: %w", err)
	}

	wonAt := cmd.WonAt
	if wonAt.IsZero() {
		wonAt = time.Now().UTC()
	}

	updated, err := h.playerRepo.Mutate(ctx, cmd.PlayerID, func(p *player.Player) error {
		return p.RecordWin(wonAt)
	})
	if err != nil {
		return nil, wrapPlayerError("RecordWin", err)
	}

	if h.eventBus != nil {
		event := shared.NewWinRecordedEvent(updated.ID, updated.GamesWon)
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.eventBus.Publish(event)
	}

	stats := player.ComputeStats(updated)

	return &RecordWinResult{
		PlayerID:    updated.ID,
		GamesWon:    updated.GamesWon,
		GamesPlayed: updated.GamesPlayed,
		WinRate:     stats.WinRate,
		RecordedAt:  wonAt,
	}, nil
}
