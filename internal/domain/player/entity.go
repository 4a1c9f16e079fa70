// Package player contains the player domain model for the Playzo platform.
// This is the core of the business logic - there are no external dependencies here.
package player

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Score represents a single game score.
type Score int

// IsValid reports whether the score is a valid (non-negative) game result.
func (s Score) IsValid() bool {
	return s >= 0
}

// Gender represents a player's gender as stored in the profile.
type Gender string

const (
	// GenderMale - male.
	GenderMale Gender = "M"
	// GenderFemale - female.
	GenderFemale Gender = "F"
)

// IsValid reports whether the gender code is one of the known values.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// RankTier is a coarse classification of a player derived from total score.
type RankTier string

const (
	// TierBeginner - total score of 100 or less.
	TierBeginner RankTier = "Beginner"
	// TierIntermediate - total score above 100.
	TierIntermediate RankTier = "Intermediate"
	// TierAdvanced - total score above 500.
	TierAdvanced RankTier = "Advanced"
	// TierExpert - total score above 1000.
	TierExpert RankTier = "Expert"
)

// TierForScore classifies a total score into a rank tier.
// Thresholds are exclusive lower bounds: exactly 1000 is Advanced, not Expert.
func TierForScore(totalScore int) RankTier {
	switch {
	case totalScore > 1000:
		return TierExpert
	case totalScore > 500:
		return TierAdvanced
	case totalScore > 100:
		return TierIntermediate
	default:
		return TierBeginner
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: PLAYER
// ══════════════════════════════════════════════════════════════════════════════

// Player is the durable per-account performance entity.
// Profile fields come from registration; the counters are mutated exclusively
// through RecordGameResult and RecordWin.
type Player struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// UserID - the owning account, exactly one player per user.
	UserID string

	// DisplayName - name shown on leaderboards.
	DisplayName string

	// Gender - "M" or "F".
	Gender Gender

	// Birthdate - optional date of birth.
	Birthdate *time.Time

	// Email - unique contact email.
	Email string

	// Phone - unique contact phone.
	Phone string

	// Address - optional free-form location.
	Address string

	// PhotoURL - optional profile photo URL.
	PhotoURL string

	// TotalScore - sum of every score ever recorded.
	TotalScore int

	// HighScore - maximum single score ever recorded, never decreases.
	HighScore int

	// GamesPlayed - incremented exactly once per recorded game.
	GamesPlayed int

	// GamesWon - number of recorded wins, never exceeds GamesPlayed.
	GamesWon int

	// AverageScore - TotalScore / GamesPlayed, recomputed on every mutation
	// so it can never drift from the counters it is derived from.
	AverageScore float64

	// LastGameScore - the most recently recorded score, nil before the first game.
	LastGameScore *int

	// LastGameDate - when the most recent game was recorded.
	LastGameDate *time.Time

	// CreatedAt - when the record was created.
	CreatedAt time.Time

	// UpdatedAt - when the record was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidScore - score is negative.
	ErrInvalidScore = errors.New("invalid score: must be a non-negative integer")

	// ErrWinWithoutGame - a win would exceed the number of games played.
	ErrWinWithoutGame = errors.New("cannot record win: no game recorded for it")

	// ErrInvalidDisplayName - display name is empty or too long.
	ErrInvalidDisplayName = errors.New("invalid display name: must be 1-100 chars")

	// ErrInvalidGender - gender code is not "M" or "F".
	ErrInvalidGender = errors.New("invalid gender: must be M or F")

	// ErrInvalidEmail - email is missing or malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidPhone - phone is missing or too long.
	ErrInvalidPhone = errors.New("invalid phone: must be 1-20 chars")

	// ErrPlayerNotFound - player not found.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrPlayerAlreadyExists - player already exists for this account.
	ErrPlayerAlreadyExists = errors.New("player already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewPlayerParams contains the parameters for creating a new player.
type NewPlayerParams struct {
	ID          string
	UserID      string
	DisplayName string
	Gender      Gender
	Birthdate   *time.Time
	Email       string
	Phone       string
	Address     string
	PhotoURL    string
}

// NewPlayer creates a new player with all counters at zero.
func NewPlayer(params NewPlayerParams) (*Player, error) {
	if params.ID == "" {
		return nil, errors.New("player id is required")
	}
	if params.UserID == "" {
		return nil, errors.New("user id is required")
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return nil, ErrInvalidDisplayName
	}

	if !params.Gender.IsValid() {
		return nil, ErrInvalidGender
	}

	email := strings.TrimSpace(params.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	phone := strings.TrimSpace(params.Phone)
	if phone == "" || len(phone) > 20 {
		return nil, ErrInvalidPhone
	}

	now := time.Now().UTC()

	return &Player{
		ID:          params.ID,
		UserID:      params.UserID,
		DisplayName: displayName,
		Gender:      params.Gender,
		Birthdate:   params.Birthdate,
		Email:       email,
		Phone:       phone,
		Address:     strings.TrimSpace(params.Address),
		PhotoURL:    params.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// RecordGameResult applies a single game result to the player's counters.
// The score must be non-negative; on ErrInvalidScore no field is modified.
// Averages are recomputed from the updated counters, never adjusted in place.
func (p *Player) RecordGameResult(score Score, now time.Time) error {
	if !score.IsValid() {
		return ErrInvalidScore
	}

	s := int(score)
	p.LastGameScore = &s
	p.LastGameDate = &now

	p.TotalScore += s
	p.GamesPlayed++
	if s > p.HighScore {
		p.HighScore = s
	}
	p.AverageScore = float64(p.TotalScore) / float64(p.GamesPlayed)
	p.UpdatedAt = now

	return nil
}

// RecordWin increments the win counter.
// A win is rejected when it would exceed the number of games played, which
// keeps the GamesWon <= GamesPlayed invariant intact even for clients that
// report wins separately from game results.
func (p *Player) RecordWin(now time.Time) error {
	if p.GamesWon >= p.GamesPlayed {
		return ErrWinWithoutGame
	}

	p.GamesWon++
	p.UpdatedAt = now
	return nil
}

// Tier returns the player's current rank tier.
func (p *Player) Tier() RankTier {
	return TierForScore(p.TotalScore)
}

// GamesLost returns the number of games that were not won.
func (p *Player) GamesLost() int {
	return p.GamesPlayed - p.GamesWon
}

// HasPlayed reports whether the player has recorded at least one game.
func (p *Player) HasPlayed() bool {
	return p.GamesPlayed > 0
}

// UpdateProfile replaces the mutable profile fields.
func (p *Player) UpdateProfile(gender Gender, birthdate *time.Time, phone, address, photoURL string) error {
	if !gender.IsValid() {
		return ErrInvalidGender
	}

	phone = strings.TrimSpace(phone)
	if phone == "" || len(phone) > 20 {
		return ErrInvalidPhone
	}

	p.Gender = gender
	p.Birthdate = birthdate
	p.Phone = phone
	p.Address = strings.TrimSpace(address)
	p.PhotoURL = photoURL
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// String returns a string representation for logging.
func (p *Player) String() string {
	return fmt.Sprintf(
		"Player{ID: %s, Name: %s, Total: %d, High: %d, Played: %d, Won: %d, Tier: %s}",
		p.ID, p.DisplayName, p.TotalScore, p.HighScore, p.GamesPlayed, p.GamesWon, p.Tier(),
	)
}

// Clone creates a deep copy of the player.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}

	clone := *p
	if p.Birthdate != nil {
		b := *p.Birthdate
		clone.Birthdate = &b
	}
	if p.LastGameScore != nil {
		s := *p.LastGameScore
		clone.LastGameScore = &s
	}
	if p.LastGameDate != nil {
		d := *p.LastGameDate
		clone.LastGameDate = &d
	}
	return &clone
}
