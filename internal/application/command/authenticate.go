package command

import (
	"context"
	"errors"
	"time"

	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// LoginCommand authenticates a user by credentials.
type LoginCommand struct {
	Username string
	Password string
}

// Validate checks command invariants.
func (c LoginCommand) Validate() error {
	if c.Username == "" || c.Password == "" {
		return shared.NewDomainError("auth", "Login", shared.ErrEmptyValue, "username and password are required")
	}
	return nil
}

// LoginResult contains the issued token pair and basic account info.
type LoginResult struct {
	UserID      string         `json:"user_id"`
	Username    string         `json:"username"`
	IsModerator bool           `json:"is_moderator"`
	Tokens      user.TokenPair `json:"-"`
}

// LoginHandler verifies credentials and issues a token pair.
type LoginHandler struct {
	userRepo user.Repository
	tokens   user.TokenService
	eventBus shared.EventBus
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(
	userRepo user.Repository,
	tokens user.TokenService,
	eventBus shared.EventBus,
) *LoginHandler {
	return &LoginHandler{
		userRepo: userRepo,
		tokens:   tokens,
		eventBus: eventBus,
	}
}

// Handle executes the login.
// A missing account and a wrong password both map to ErrInvalidCredentials so
// the response does not leak which usernames exist.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.userRepo.GetByUsername(ctx, user.Username(cmd.Username))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, shared.WrapError("auth", "Login", shared.ErrExternalService, "failed to load user", err)
	}

	if err := u.CheckPassword(cmd.Password); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	if !u.CanAuthenticate() {
		return nil, shared.ErrUserInactive
	}

	pair, err := h.tokens.IssuePair(u)
	if err != nil {
		return nil, shared.WrapError("auth", "Login", shared.ErrExternalService, "failed to issue tokens", err)
	}

	if h.eventBus != nil {
		event := authEvent{BaseEvent: shared.NewBaseEvent(shared.EventUserLoggedIn, u.ID), username: u.Username.String()}
		_ = h.eventBus.Publish(event)
	}

	return &LoginResult{
		UserID:      u.ID,
		Username:    u.Username.String(),
		IsModerator: u.IsModerator,
		Tokens:      pair,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH TOKEN COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RefreshTokenCommand exchanges a refresh token for a new pair.
type RefreshTokenCommand struct {
	RefreshToken string
}

// Validate checks command invariants.
func (c RefreshTokenCommand) Validate() error {
	if c.RefreshToken == "" {
		return shared.NewDomainError("auth", "Refresh", shared.ErrEmptyValue, "refresh token is required")
	}
	return nil
}

// RefreshTokenHandler rotates refresh tokens: the presented token is revoked
// and a new pair is issued, so a stolen refresh token can be used at most once.
type RefreshTokenHandler struct {
	userRepo user.Repository
	tokens   user.TokenService
	revoker  user.TokenRevoker
}

// NewRefreshTokenHandler creates a new RefreshTokenHandler.
func NewRefreshTokenHandler(
	userRepo user.Repository,
	tokens user.TokenService,
	revoker user.TokenRevoker,
) *RefreshTokenHandler {
	return &RefreshTokenHandler{
		userRepo: userRepo,
		tokens:   tokens,
		revoker:  revoker,
	}
}

// Handle executes the rotation.
func (h *RefreshTokenHandler) Handle(ctx context.Context, cmd RefreshTokenCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	claims, err := h.tokens.VerifyRefresh(cmd.RefreshToken)
	if err != nil {
		return nil, shared.ErrTokenInvalid
	}

	revoked, err := h.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, shared.WrapError("auth", "Refresh", shared.ErrExternalService, "failed to check revocation", err)
	}
	if revoked {
		return nil, shared.ErrTokenRevoked
	}

	u, err := h.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, shared.ErrTokenInvalid
	}
	if !u.CanAuthenticate() {
		return nil, shared.ErrUserInactive
	}

	pair, err := h.tokens.IssuePair(u)
	if err != nil {
		return nil, shared.WrapError("auth", "Refresh", shared.ErrExternalService, "failed to issue tokens", err)
	}

	// Revoke the old token only after the new pair exists, so a failed
	// rotation does not log the user out.
	if err := h.revoker.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		return nil, shared.WrapError("auth", "Refresh", shared.ErrExternalService, "failed to revoke old token", err)
	}

	return &LoginResult{
		UserID:      u.ID,
		Username:    u.Username.String(),
		IsModerator: u.IsModerator,
		Tokens:      pair,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANGE PASSWORD COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ChangePasswordCommand replaces an authenticated user's password.
type ChangePasswordCommand struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// Validate checks command invariants.
func (c ChangePasswordCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("auth", "ChangePassword", shared.ErrEmptyValue, "user id is required")
	}
	if c.CurrentPassword == "" || c.NewPassword == "" {
		return shared.NewDomainError("auth", "ChangePassword", shared.ErrEmptyValue, "current and new passwords are required")
	}
	return nil
}

// ChangePasswordHandler verifies the current password and stores a new hash.
// Issued tokens stay valid; only the credential changes.
type ChangePasswordHandler struct {
	userRepo user.Repository
}

// NewChangePasswordHandler creates a new ChangePasswordHandler.
func NewChangePasswordHandler(userRepo user.Repository) *ChangePasswordHandler {
	return &ChangePasswordHandler{userRepo: userRepo}
}

// Handle executes the password change.
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	u, err := h.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || shared.IsNotFound(err) {
			return shared.ErrUserNotFound
		}
		return shared.WrapError("auth", "ChangePassword", shared.ErrExternalService, "failed to load user", err)
	}

	if err := u.CheckPassword(cmd.CurrentPassword); err != nil {
		return shared.WrapError("auth", "ChangePassword", shared.ErrInvalidInput, "current password is incorrect", err)
	}

	if err := u.SetPassword(cmd.NewPassword); err != nil {
		return shared.WrapError("auth", "ChangePassword", shared.ErrInvalidInput, "invalid new password", err)
	}

	if err := h.userRepo.Update(ctx, u); err != nil {
		return shared.WrapError("auth", "ChangePassword", shared.ErrExternalService, "failed to store password", err)
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGOUT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// LogoutCommand revokes a refresh token, ending the session.
type LogoutCommand struct {
	RefreshToken string
}

// Validate checks command invariants.
func (c LogoutCommand) Validate() error {
	if c.RefreshToken == "" {
		return shared.NewDomainError("auth", "Logout", shared.ErrEmptyValue, "refresh token is required")
	}
	return nil
}

// LogoutHandler revokes refresh tokens.
type LogoutHandler struct {
	tokens   user.TokenService
	revoker  user.TokenRevoker
	eventBus shared.EventBus
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(
	tokens user.TokenService,
	revoker user.TokenRevoker,
	eventBus shared.EventBus,
) *LogoutHandler {
	return &LogoutHandler{
		tokens:   tokens,
		revoker:  revoker,
		eventBus: eventBus,
	}
}

// Handle executes the logout. Revoking an already-revoked token succeeds;
// logout is idempotent.
func (h *LogoutHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	claims, err := h.tokens.VerifyRefresh(cmd.RefreshToken)
	if err != nil {
		return shared.ErrTokenInvalid
	}

	if err := h.revoker.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		return shared.WrapError("auth", "Logout", shared.ErrExternalService, "failed to revoke token", err)
	}

	if h.eventBus != nil {
		event := authEvent{BaseEvent: shared.NewBaseEvent(shared.EventUserLoggedOut, claims.UserID), username: claims.Username}
		_ = h.eventBus.Publish(event)
	}

	return nil
}

// authEvent is a minimal audit event for login/logout.
type authEvent struct {
	shared.BaseEvent
	username string
}

func (e authEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"username": e.username,
	}
}
