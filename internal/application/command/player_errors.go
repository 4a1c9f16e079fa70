package command

import (
	"errors"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// wrapPlayerError classifies the player package's sentinels into the shared
// kinds the interface layer maps to HTTP statuses. The original sentinel
// stays reachable through errors.Is.
func wrapPlayerError(op string, err error) error {
	switch {
	case errors.Is(err, player.ErrPlayerNotFound):
		return shared.WrapError("player", op, shared.ErrNotFound, "player not found", err)
	case errors.Is(err, player.ErrPlayerAlreadyExists):
		return shared.WrapError("player", op, shared.ErrAlreadyExists, "player already exists", err)
	case errors.Is(err, player.ErrInvalidScore):
		return shared.WrapError("player", op, shared.ErrNegativeValue, "score must be a non-negative integer", err)
	case errors.Is(err, player.ErrWinWithoutGame):
		return shared.WrapError("player", op, shared.ErrInvalidInput, "win recorded without a corresponding game", err)
	case errors.Is(err, player.ErrInvalidDisplayName),
		errors.Is(err, player.ErrInvalidGender),
		errors.Is(err, player.ErrInvalidEmail),
		errors.Is(err, player.ErrInvalidPhone):
		return shared.WrapError("player", op, shared.ErrInvalidInput, "invalid profile data", err)
	default:
		return shared.WrapError("player", op, shared.ErrExternalService, "player store failure", err)
	}
}
