package redis

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVOKED TOKEN STORE
// ══════════════════════════════════════════════════════════════════════════════

// TokenStore tracks revoked refresh tokens. Logout writes the token ID here
// with a TTL matching the token's remaining lifetime; once the token would
// have expired anyway the key ages out on its own.
type TokenStore struct {
	cache *Cache
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(cache *Cache) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks a token ID as revoked until ttl elapses.
// A non-positive ttl means the token is already expired and needs no entry.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return ErrCacheKeyEmpty
	}
	if ttl <= 0 {
		return nil
	}

	return s.cache.SetString(ctx, RevokedTokenKey(tokenID), "1", ttl)
}

// IsRevoked reports whether a token ID has been revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, ErrCacheKeyEmpty
	}

	_, err := s.cache.GetString(ctx, RevokedTokenKey(tokenID))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
