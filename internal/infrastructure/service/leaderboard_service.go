// Package service contains infrastructure-level services that compose
// persistence, caching, and resilience primitives behind application ports.
package service

import (
	"context"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardService serves ranked reads from the Redis leaderboard cache with
// the Postgres player table as fallback. The cache path runs behind a circuit
// breaker, so when Redis misbehaves the service stops hammering it and reads
// the database directly until the breaker half-opens.
//
// It implements the ranking source port of the leaderboard query.
type LeaderboardService struct {
	playerRepo player.Repository
	cache      player.LeaderboardCache
	breaker    *circuitbreaker.CircuitBreaker
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	playerRepo player.Repository,
	cache player.LeaderboardCache,
	breaker *circuitbreaker.CircuitBreaker,
) *LeaderboardService {
	if breaker == nil {
		breaker = circuitbreaker.CacheBreaker(nil)
	}

	return &LeaderboardService{
		playerRepo: playerRepo,
		cache:      cache,
		breaker:    breaker,
	}
}

// Top returns the highest-ranked players for a criterion.
func (s *LeaderboardService) Top(ctx context.Context, criterion player.SortCriterion, limit int) ([]player.RankedPlayer, error) {
	limit = player.ClampLimit(limit)

	if s.cache == nil {
		return s.topFromRepository(ctx, criterion, limit)
	}

	var ranked []player.RankedPlayer

	err := s.breaker.ExecuteWithFallback(ctx,
		func(ctx context.Context) error {
			var err error
			ranked, err = s.cache.Top(ctx, criterion, limit)
			return err
		},
		func(error) error {
			var err error
			ranked, err = s.topFromRepository(ctx, criterion, limit)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	return ranked, nil
}

// Rank returns a single player's position for a criterion, or 0 when the
// player is not ranked.
func (s *LeaderboardService) Rank(ctx context.Context, playerID string, criterion player.SortCriterion) (int, error) {
	players, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	ranked := player.Rankings(players, criterion)

	for _, r := range ranked {
		if r.Player.ID == playerID {
			return r.Position, nil
		}
	}
	return 0, nil
}

// topFromRepository ranks straight from the system of record.
func (s *LeaderboardService) topFromRepository(ctx context.Context, criterion player.SortCriterion, limit int) ([]player.RankedPlayer, error) {
	players, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked := player.Rankings(players, criterion)
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
