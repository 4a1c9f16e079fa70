package auth

import (
	"context"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY TOKEN REVOKER
// ══════════════════════════════════════════════════════════════════════════════

// MemoryRevoker tracks revoked token IDs in process memory. It backs
// development and test setups that run without Redis; revocations do not
// survive a restart and are not shared between instances.
type MemoryRevoker struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevoker creates a new MemoryRevoker.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks a token ID as revoked until ttl elapses.
// A non-positive ttl means the token is already expired and needs no entry.
func (r *MemoryRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()
	r.revoked[tokenID] = r.now().Add(ttl)
	return nil
}

// IsRevoked reports whether a token ID has been revoked.
func (r *MemoryRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	r.mu.RLock()
	expiry, ok := r.revoked[tokenID]
	r.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if r.now().After(expiry) {
		r.mu.Lock()
		delete(r.revoked, tokenID)
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// purgeLocked drops expired entries. Caller must hold the write lock.
func (r *MemoryRevoker) purgeLocked() {
	now := r.now()
	for id, expiry := range r.revoked {
		if now.After(expiry) {
			delete(r.revoked, id)
		}
	}
}
