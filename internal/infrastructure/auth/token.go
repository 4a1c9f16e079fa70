// Package auth implements JWT issuance and verification for the Playzo
// platform. Access tokens are short-lived and carried on every request;
// refresh tokens live for months and can be revoked through the token store.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
)

// Token types embedded in claims so an access token can never pass for a
// refresh token and vice versa.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Config holds token manager configuration.
type Config struct {
	// Secret signs both token types. Must be at least 32 bytes.
	Secret string

	// Issuer is the "iss" claim on every token.
	Issuer string

	// AccessTTL is the access token lifetime.
	AccessTTL time.Duration

	// RefreshTTL is the refresh token lifetime.
	RefreshTTL time.Duration
}

// DefaultConfig returns the standard token lifetimes.
func DefaultConfig() Config {
	return Config{
		Issuer:     "playzo",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 180 * 24 * time.Hour,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if len(c.Secret) < 32 {
		return errors.New("auth: secret must be at least 32 bytes")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("auth: token TTLs must be positive")
	}
	return nil
}

// claims is the JWT payload for both token types.
type claims struct {
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
	IsModerator bool   `json:"is_moderator"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed JWTs. It implements
// user.TokenService.
type TokenManager struct {
	config Config
	secret []byte
	now    func() time.Time
}

// NewTokenManager creates a TokenManager from config.
func NewTokenManager(config Config) (*TokenManager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &TokenManager{
		config: config,
		secret: []byte(config.Secret),
		now:    time.Now,
	}, nil
}

// IssuePair creates a fresh access/refresh pair for a user.
func (m *TokenManager) IssuePair(u *user.User) (user.TokenPair, error) {
	now := m.now().UTC()
	accessExpiry := now.Add(m.config.AccessTTL)
	refreshExpiry := now.Add(m.config.RefreshTTL)

	access, err := m.sign(u, tokenTypeAccess, now, accessExpiry)
	if err != nil {
		return user.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := m.sign(u, tokenTypeRefresh, now, refreshExpiry)
	if err != nil {
		return user.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return user.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (m *TokenManager) VerifyAccess(token string) (*user.TokenClaims, error) {
	return m.verify(token, tokenTypeAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *TokenManager) VerifyRefresh(token string) (*user.TokenClaims, error) {
	return m.verify(token, tokenTypeRefresh)
}

func (m *TokenManager) sign(u *user.User, tokenType string, issuedAt, expiresAt time.Time) (string, error) {
	c := claims{
		TokenType:   tokenType,
		Username:    u.Username.String(),
		IsModerator: u.IsModerator,
		IsSuperuser: u.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *TokenManager) verify(token, wantType string) (*user.TokenClaims, error) {
	var c claims

	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, shared.ErrTokenInvalid
	}

	if c.TokenType != wantType || c.Issuer != m.config.Issuer {
		return nil, shared.ErrTokenInvalid
	}

	return &user.TokenClaims{
		TokenID:     c.ID,
		UserID:      c.Subject,
		Username:    c.Username,
		IsModerator: c.IsModerator,
		IsSuperuser: c.IsSuperuser,
		ExpiresAt:   c.ExpiresAt.Time,
	}, nil
}
