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
// UPDATE PLAYER COMMAND
// Replaces the mutable profile fields. Counters and identity fields are
// untouchable here - the display name changes through its own path because
// it affects leaderboard tiebreaks.
// ══════════════════════════════════════════════════════════════════════════════

// UpdatePlayerCommand contains the profile fields to replace.
type UpdatePlayerCommand struct {
	// PlayerID is the internal ID of the player.
	PlayerID string

	// Gender is "M" or "F".
	Gender string

	// Birthdate is the optional date of birth.
	Birthdate *time.Time

	// Phone is the contact phone.
	Phone string

	// Address is the optional free-form location.
	Address string

	// PhotoURL is the optional profile photo URL.
	PhotoURL string

	// DisplayName optionally renames the player; empty means keep.
	DisplayName string
}

// Validate validates the command.
func (c UpdatePlayerCommand) Validate() error {
	if c.PlayerID == "" {
		return errors.New("update_player: player_id is required")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UpdatePlayerHandler handles the UpdatePlayerCommand.
type UpdatePlayerHandler struct {
	playerRepo player.Repository
	eventBus   shared.EventBus
}

// NewUpdatePlayerHandler creates a new UpdatePlayerHandler.
func NewUpdatePlayerHandler(playerRepo player.Repository, eventBus shared.EventBus) *UpdatePlayerHandler {
	return &UpdatePlayerHandler{
		playerRepo: playerRepo,
		eventBus:   eventBus,
	}
}

// Handle executes the update player command and returns the updated player.
func (h *UpdatePlayerHandler) Handle(ctx context.Context, cmd UpdatePlayerCommand) (*player.Player, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_player: validation failed: %w", err)
	}

	updated, err := h.playerRepo.Mutate(ctx, cmd.PlayerID, func(p *player.Player) error {
		if cmd.DisplayName != "" {
			name := cmd.DisplayName
			if len(name) > 100 {
				return player.ErrInvalidDisplayName
			}
			p.DisplayName = name
		}
		return p.UpdateProfile(player.Gender(cmd.Gender), cmd.Birthdate, cmd.Phone, cmd.Address, cmd.PhotoURL)
	})
	if err != nil {
		return nil, wrapPlayerError("Update", err)
	}

	if h.eventBus != nil {
		event := shared.NewBaseEvent(shared.EventPlayerUpdated, updated.ID)
		_ = h.eventBus.Publish(playerUpdatedEvent{BaseEvent: event})
	}

	return updated, nil
}

// playerUpdatedEvent is a minimal event with no extra payload.
type playerUpdatedEvent struct {
	shared.BaseEvent
}

// Payload implements shared.Event.
func (e playerUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"player_id": e.AggregateID()}
}
