package eventhandler

import (
	"log/slog"

	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON TIER CHANGED HANDLER
// Records tier transitions in the audit log. Tier changes are the platform's
// progression signal, so operators want them visible even before any client
// notification channel exists.
// ═══════════════════════════════════════════════════════════════════════════

// OnTierChangedHandler logs tier transitions.
type OnTierChangedHandler struct {
	logger *slog.Logger
}

// NewOnTierChangedHandler creates a new OnTierChangedHandler.
func NewOnTierChangedHandler(logger *slog.Logger) *OnTierChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnTierChangedHandler{logger: logger.With("handler", "on_tier_changed")}
}

// Handle implements shared.EventHandler.
func (h *OnTierChangedHandler) Handle(event shared.Event) error {
	tierEvent, ok := event.(shared.TierChangedEvent)
	if !ok {
		h.logger.Warn("received non-TierChangedEvent", "event_type", event.EventType())
		return nil
	}

	h.logger.Info("player changed tier",
		"player_id", tierEvent.PlayerID,
		"old_tier", tierEvent.OldTier,
		"new_tier", tierEvent.NewTier,
	)
	return nil
}

// EventType returns the event type this handler subscribes to.
func (h *OnTierChangedHandler) EventType() shared.EventType {
	return shared.EventTierChanged
}
