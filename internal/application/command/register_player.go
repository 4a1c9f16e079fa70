package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER PLAYER COMMAND
// Creates an account and its player profile in one step. The account carries
// the credentials; the profile carries everything shown on leaderboards.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterPlayerCommand contains the data to register a new player.
type RegisterPlayerCommand struct {
	// Username is the unique login name.
	Username string

	// Password is the plaintext password; only the hash is ever stored.
	Password string

	// DisplayName is the name shown on leaderboards.
	DisplayName string

	// Gender is "M" or "F".
	Gender string

	// Birthdate is the optional date of birth.
	Birthdate *time.Time

	// Email is the unique contact email.
	Email string

	// Phone is the unique contact phone.
	Phone string

	// Address is the optional free-form location.
	Address string

	// PhotoURL is the optional profile photo URL.
	PhotoURL string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RegisterPlayerCommand) Validate() error {
	if c.Username == "" {
		return errors.New("register_player: username is required")
	}
	if c.Password == "" {
		return errors.New("register_player: password is required")
	}
	if c.DisplayName == "" {
		return errors.New("register_player: display_name is required")
	}
	return nil
}

// RegisterPlayerResult contains the created identifiers.
type RegisterPlayerResult struct {
	// UserID is the ID of the created account.
	UserID string

	// PlayerID is the ID of the created player profile.
	PlayerID string

	// Username echoes the registered login name.
	Username string

	// DisplayName echoes the registered display name.
	DisplayName string

	// CreatedAt is when the registration completed.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterPlayerHandler handles the RegisterPlayerCommand.
type RegisterPlayerHandler struct {
	userRepo   user.Repository
	playerRepo player.Repository
	eventBus   shared.EventBus
}

// NewRegisterPlayerHandler creates a new RegisterPlayerHandler.
func NewRegisterPlayerHandler(
	userRepo user.Repository,
	playerRepo player.Repository,
	eventBus shared.EventBus,
) *RegisterPlayerHandler {
	return &RegisterPlayerHandler{
		userRepo:   userRepo,
		playerRepo: playerRepo,
		eventBus:   eventBus,
	}
}

// Handle executes the register player command.
func (h *RegisterPlayerHandler) Handle(ctx context.Context, cmd RegisterPlayerCommand) (*RegisterPlayerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_player: validation failed: %w", err)
	}

	username := user.Username(cmd.Username)
	taken, err := h.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register_player: failed to check username: %w", err)
	}
	if taken {
		return nil, shared.ErrUserAlreadyExists
	}

	account, err := user.NewUser(uuid.NewString(), username, cmd.DisplayName, cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register_player: %w", err)
	}

	profile, err := player.NewPlayer(player.NewPlayerParams{
		ID:          uuid.NewString(),
		UserID:      account.ID,
		DisplayName: cmd.DisplayName,
		Gender:      player.Gender(cmd.Gender),
		Birthdate:   cmd.Birthdate,
		Email:       cmd.Email,
		Phone:       cmd.Phone,
		Address:     cmd.Address,
		PhotoURL:    cmd.PhotoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("register_player: %w", err)
	}

	if err := h.userRepo.Create(ctx, account); err != nil {
		// A concurrent registration can slip past the ExistsByUsername check.
		if errors.Is(err, user.ErrUserAlreadyExists) {
			return nil, shared.ErrUserAlreadyExists
		}
		return nil, shared.WrapError("player", "Register", shared.ErrExternalService, "failed to create account", err)
	}

	if err := h.playerRepo.Create(ctx, profile); err != nil {
		// The account without a profile is unusable; roll it back so the
		// username can be retried.
		account.Deactivate()
		_ = h.userRepo.Update(ctx, account)
		return nil, wrapPlayerError("Register", err)
	}

	if h.eventBus != nil {
		event := shared.NewPlayerRegisteredEvent(profile.ID, account.ID, profile.DisplayName, profile.Email)
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.eventBus.Publish(event)
	}

	return &RegisterPlayerResult{
		UserID:      account.ID,
		PlayerID:    profile.ID,
		Username:    cmd.Username,
		DisplayName: profile.DisplayName,
		CreatedAt:   profile.CreatedAt,
	}, nil
}
