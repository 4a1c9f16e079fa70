package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Secret = "0123456789abcdef0123456789abcdef"
	return cfg
}

func testUser(t *testing.T) *user.User {
	t.Helper()

	u, err := user.NewUser("user-1", "karim_hassan", "Karim Hassan", "s3cret-pass")
	require.NoError(t, err)
	u.IsModerator = true
	return u
}

func TestNewTokenManager(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Secret = "too-short"

		_, err := NewTokenManager(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects zero TTL", func(t *testing.T) {
		cfg := testConfig()
		cfg.AccessTTL = 0

		_, err := NewTokenManager(cfg)
		assert.Error(t, err)
	})
}

func TestIssuePair(t *testing.T) {
	manager, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	pair, err := manager.IssuePair(testUser(t))
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
}

func TestVerifyAccess(t *testing.T) {
	manager, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	u := testUser(t)
	pair, err := manager.IssuePair(u)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		claims, err := manager.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, u.ID, claims.UserID)
		assert.Equal(t, "karim_hassan", claims.Username)
		assert.True(t, claims.IsModerator)
		assert.False(t, claims.IsSuperuser)
		assert.NotEmpty(t, claims.TokenID)
	})

	t.Run("refresh token rejected as access", func(t *testing.T) {
		_, err := manager.VerifyAccess(pair.RefreshToken)
		assert.ErrorIs(t, err, shared.ErrTokenInvalid)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := manager.VerifyAccess("not.a.token")
		assert.ErrorIs(t, err, shared.ErrTokenInvalid)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		otherCfg := testConfig()
		otherCfg.Secret = "ffffffffffffffffffffffffffffffff"
		other, err := NewTokenManager(otherCfg)
		require.NoError(t, err)

		_, err = other.VerifyAccess(pair.AccessToken)
		assert.ErrorIs(t, err, shared.ErrTokenInvalid)
	})
}

func TestVerifyRefresh(t *testing.T) {
	manager, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	pair, err := manager.IssuePair(testUser(t))
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		claims, err := manager.VerifyRefresh(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("access token rejected as refresh", func(t *testing.T) {
		_, err := manager.VerifyRefresh(pair.AccessToken)
		assert.ErrorIs(t, err, shared.ErrTokenInvalid)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expiredCfg := testConfig()
		expired, err := NewTokenManager(expiredCfg)
		require.NoError(t, err)
		expired.now = func() time.Time { return time.Now().Add(-365 * 24 * time.Hour) }

		pair, err := expired.IssuePair(testUser(t))
		require.NoError(t, err)

		_, err = manager.VerifyRefresh(pair.RefreshToken)
		assert.ErrorIs(t, err, shared.ErrTokenInvalid)
	})
}

func TestTokenIDsAreUnique(t *testing.T) {
	manager, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	u := testUser(t)
	first, err := manager.IssuePair(u)
	require.NoError(t, err)
	second, err := manager.IssuePair(u)
	require.NoError(t, err)

	c1, err := manager.VerifyRefresh(first.RefreshToken)
	require.NoError(t, err)
	c2, err := manager.VerifyRefresh(second.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, c1.TokenID, c2.TokenID)
}
