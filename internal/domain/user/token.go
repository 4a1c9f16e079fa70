package user

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOKEN PORTS
// ══════════════════════════════════════════════════════════════════════════════

// TokenPair is an access/refresh token pair issued at login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenClaims is the identity carried by a verified token.
type TokenClaims struct {
	// TokenID uniquely identifies this token so it can be revoked.
	TokenID string

	// UserID is the account the token was issued for.
	UserID string

	Username    string
	IsModerator bool
	IsSuperuser bool

	// ExpiresAt is when the token stops being valid.
	ExpiresAt time.Time
}

// TokenService issues and verifies token pairs. Implemented by the auth
// infrastructure package; defined here so application handlers stay free of
// JWT specifics.
type TokenService interface {
	// IssuePair creates a fresh access/refresh pair for a user.
	IssuePair(u *User) (TokenPair, error)

	// VerifyAccess validates an access token and returns its claims.
	VerifyAccess(token string) (*TokenClaims, error)

	// VerifyRefresh validates a refresh token and returns its claims.
	VerifyRefresh(token string) (*TokenClaims, error)
}

// TokenRevoker tracks revoked refresh tokens so logout actually ends the
// session before the token expires on its own.
type TokenRevoker interface {
	// Revoke marks a token ID as revoked for the given duration.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether a token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
