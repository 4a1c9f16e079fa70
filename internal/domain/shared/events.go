// Package shared contains common domain types, errors, and events that are
// used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Player events
	EventPlayerRegistered EventType = "player.registered"
	EventPlayerUpdated    EventType = "player.updated"
	EventScoreRecorded    EventType = "player.score_recorded"
	EventWinRecorded      EventType = "player.win_recorded"
	EventTierChanged      EventType = "player.tier_changed"

	// Offer events
	EventOfferCreated       EventType = "offer.created"
	EventOfferUpdated       EventType = "offer.updated"
	EventOfferStatusChanged EventType = "offer.status_changed"
	EventOfferExpired       EventType = "offer.expired"

	// Leaderboard events
	EventLeaderboardRebuilt EventType = "leaderboard.rebuilt"

	// Auth events
	EventUserLoggedIn  EventType = "auth.logged_in"
	EventUserLoggedOut EventType = "auth.logged_out"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a single domain event.
type EventHandler func(event Event) error

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Player Events
// ═══════════════════════════════════════════════════════════════════════════

// PlayerRegisteredEvent is emitted when a new player account is created.
type PlayerRegisteredEvent struct {
	BaseEvent
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Payload implements Event interface.
func (e PlayerRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":      e.UserID,
		"display_name": e.DisplayName,
		"email":        e.Email,
	}
}

// NewPlayerRegisteredEvent creates a new PlayerRegisteredEvent.
func NewPlayerRegisteredEvent(playerID, userID, displayName, email string) PlayerRegisteredEvent {
	return PlayerRegisteredEvent{
		BaseEvent:   NewBaseEvent(EventPlayerRegistered, playerID),
		UserID:      userID,
		DisplayName: displayName,
		Email:       email,
	}
}

// ScoreRecordedEvent is emitted when a game result is recorded for a player.
type ScoreRecordedEvent struct {
	BaseEvent
	PlayerID    string  `json:"player_id"`
	Score       int     `json:"score"`
	TotalScore  int     `json:"total_score"`
	HighScore   int     `json:"high_score"`
	GamesPlayed int     `json:"games_played"`
	Average     float64 `json:"average_score"`
}

// Payload implements Event interface.
func (e ScoreRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"player_id":     e.PlayerID,
		"score":         e.Score,
		"total_score":   e.TotalScore,
		"high_score":    e.HighScore,
		"games_played":  e.GamesPlayed,
		"average_score": e.Average,
	}
}

// NewScoreRecordedEvent creates a new ScoreRecordedEvent.
func NewScoreRecordedEvent(playerID string, score, totalScore, highScore, gamesPlayed int, average float64) ScoreRecordedEvent {
	return ScoreRecordedEvent{
		BaseEvent:   NewBaseEvent(EventScoreRecorded, playerID),
		PlayerID:    playerID,
		Score:       score,
		TotalScore:  totalScore,
		HighScore:   highScore,
		GamesPlayed: gamesPlayed,
		Average:     average,
	}
}

// WinRecordedEvent is emitted when a win is recorded for a player.
type WinRecordedEvent struct {
	BaseEvent
	PlayerID string `json:"player_id"`
	GamesWon int    `json:"games_won"`
}

// Payload implements Event interface.
func (e WinRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"player_id": e.PlayerID,
		"games_won": e.GamesWon,
	}
}

// NewWinRecordedEvent creates a new WinRecordedEvent.
func NewWinRecordedEvent(playerID string, gamesWon int) WinRecordedEvent {
	return WinRecordedEvent{
		BaseEvent: NewBaseEvent(EventWinRecorded, playerID),
		PlayerID:  playerID,
		GamesWon:  gamesWon,
	}
}

// TierChangedEvent is emitted when a player's rank tier changes.
type TierChangedEvent struct {
	BaseEvent
	PlayerID string `json:"player_id"`
	OldTier  string `json:"old_tier"`
	NewTier  string `json:"new_tier"`
}

// Payload implements Event interface.
func (e TierChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"player_id": e.PlayerID,
		"old_tier":  e.OldTier,
		"new_tier":  e.NewTier,
	}
}

// NewTierChangedEvent creates a new TierChangedEvent.
func NewTierChangedEvent(playerID, oldTier, newTier string) TierChangedEvent {
	return TierChangedEvent{
		BaseEvent: NewBaseEvent(EventTierChanged, playerID),
		PlayerID:  playerID,
		OldTier:   oldTier,
		NewTier:   newTier,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Offer Events
// ═══════════════════════════════════════════════════════════════════════════

// OfferStatusChangedEvent is emitted when an offer transitions between statuses.
type OfferStatusChangedEvent struct {
	BaseEvent
	OfferID   string `json:"offer_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by,omitempty"`
}

// Payload implements Event interface.
func (e OfferStatusChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"offer_id":   e.OfferID,
		"old_status": e.OldStatus,
		"new_status": e.NewStatus,
		"changed_by": e.ChangedBy,
	}
}

// NewOfferStatusChangedEvent creates a new OfferStatusChangedEvent.
func NewOfferStatusChangedEvent(offerID, oldStatus, newStatus, changedBy string) OfferStatusChangedEvent {
	return OfferStatusChangedEvent{
		BaseEvent: NewBaseEvent(EventOfferStatusChanged, offerID),
		OfferID:   offerID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus
// ═══════════════════════════════════════════════════════════════════════════

// EventBus publishes domain events to interested subscribers.
type EventBus interface {
	// Publish delivers an event to all subscribed handlers.
	Publish(event Event) error

	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// Close shuts down the bus and waits for in-flight handlers.
	Close() error
}
