// Package command contains write operations (CQRS - Commands).
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
// RECORD GAME RESULT COMMAND
// Records a finished game for a player: accumulates the total score, bumps the
// games counter, tracks the high score and recomputes the running average.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGameResultCommand contains the data to record a game result.
type RecordGameResultCommand struct {
	// PlayerID is the internal ID of the player.
	PlayerID string

	// Score is the score earned in the game. Must be non-negative.
	Score int

	// Won marks the game as won, in which case the win counter is
	// incremented in the same update.
	Won bool

	// PlayedAt is when the game finished (defaults to now if zero).
	PlayedAt time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RecordGameResultCommand) Validate() error {
	if c.PlayerID == "" {
		return errors.New("record_game_result: player_id is required")
	}
	if c.Score < 0 {
		return shared.WrapError("player", "RecordResult", shared.ErrNegativeValue,
			"score must be a non-negative integer", player.ErrInvalidScore)
	}
	return nil
}

// RecordGameResultResult contains the player state after the update.
type RecordGameResultResult struct {
	// PlayerID is the internal ID of the player.
	PlayerID string

	// TotalScore is the accumulated score after the update.
	TotalScore int

	// HighScore is the best single-game score after the update.
	HighScore int

	// GamesPlayed is the games counter after the update.
	GamesPlayed int

	// GamesWon is the win counter after the update.
	GamesWon int

	// AverageScore is the recomputed mean score per game.
	AverageScore float64

	// Tier is the rank tier after the update.
	Tier player.RankTier

	// TierChanged indicates the update moved the player across a tier
	// boundary.
	TierChanged bool

	// Events contains the domain events generated.
	Events []shared.Event

	// RecordedAt is when the result was recorded.
	RecordedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordGameResultHandler handles the RecordGameResultCommand.
type RecordGameResultHandler struct {
	playerRepo player.Repository
	eventBus   shared.EventBus
}

// NewRecordGameResultHandler creates a new RecordGameResultHandler.
func NewRecordGameResultHandler(playerRepo player.Repository, eventBus shared.EventBus) *RecordGameResultHandler {
	return &RecordGameResultHandler{
		playerRepo: playerRepo,
		eventBus:   eventBus,
	}
}

// Handle executes the record game result command. The read-modify-write runs
// inside the repository's Mutate so concurrent submissions for the same
// player cannot lose updates.
func (h *RecordGameResultHandler) Handle(ctx context.Context, cmd RecordGameResultCommand) (*RecordGameResultResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_game_result: validation failed: %w", err)
	}

	playedAt := cmd.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}

	var oldTier player.RankTier

	updated, err := h.playerRepo.Mutate(ctx, cmd.PlayerID, func(p *player.Player) error {
		oldTier = p.Tier()

		if err := p.RecordGameResult(player.Score(cmd.Score), playedAt); err != nil {
			return err
		}
		if cmd.Won {
			if err := p.RecordWin(playedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapPlayerError("RecordResult", err)
	}

	result := &RecordGameResultResult{
		PlayerID:     updated.ID,
		TotalScore:   updated.TotalScore,
		HighScore:    updated.HighScore,
		GamesPlayed:  updated.GamesPlayed,
		GamesWon:     updated.GamesWon,
		AverageScore: updated.AverageScore,
		Tier:         updated.Tier(),
		TierChanged:  updated.Tier() != oldTier,
		RecordedAt:   playedAt,
		Events:       make([]shared.Event, 0, 3),
	}

	scoreEvent := shared.NewScoreRecordedEvent(
		updated.ID, cmd.Score, updated.TotalScore, updated.HighScore,
		updated.GamesPlayed, updated.AverageScore,
	)
	if cmd.CorrelationID != "" {
		scoreEvent.BaseEvent = scoreEvent.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, scoreEvent)

	if cmd.Won {
		result.Events = append(result.Events, shared.NewWinRecordedEvent(updated.ID, updated.GamesWon))
	}

	if result.TierChanged {
		result.Events = append(result.Events,
			shared.NewTierChangedEvent(updated.ID, string(oldTier), string(updated.Tier())))
	}

	h.publish(result.Events)

	return result, nil
}

// publish delivers events best-effort. Ranking caches rebuild on schedule,
// so a dropped event only delays a refresh.
func (h *RecordGameResultHandler) publish(events []shared.Event) {
	if h.eventBus == nil {
		return
	}
	for _, event := range events {
		_ = h.eventBus.Publish(event)
	}
}
