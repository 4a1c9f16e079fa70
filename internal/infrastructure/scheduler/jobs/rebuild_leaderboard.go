// Package jobs contains implementations of scheduled jobs for the Playzo
// platform.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardJob reloads every player from the system of record and
// replaces the cached leaderboard wholesale. Per-game cache updates keep the
// board warm between runs; this job repairs whatever they missed (crashed
// handlers, evicted keys, manual database edits).
type RebuildLeaderboardJob struct {
	playerRepo player.Repository
	cache      player.LeaderboardCache
	eventBus   shared.EventBus
	logger     *slog.Logger
	config     RebuildLeaderboardConfig

	lastRebuildStats atomic.Value // *RebuildStats
}

// RebuildLeaderboardConfig contains configuration for the rebuild job.
type RebuildLeaderboardConfig struct {
	// Timeout is the maximum duration for the rebuild operation.
	Timeout time.Duration
}

// DefaultRebuildLeaderboardConfig returns sensible defaults.
func DefaultRebuildLeaderboardConfig() RebuildLeaderboardConfig {
	return RebuildLeaderboardConfig{
		Timeout: 2 * time.Minute,
	}
}

// RebuildStats contains statistics from a rebuild run.
type RebuildStats struct {
	StartedAt    time.Time
	CompletedAt  time.Time
	Duration     time.Duration
	TotalPlayers int
}

// NewRebuildLeaderboardJob creates a new rebuild leaderboard job.
func NewRebuildLeaderboardJob(
	playerRepo player.Repository,
	cache player.LeaderboardCache,
	eventBus shared.EventBus,
	logger *slog.Logger,
	config RebuildLeaderboardConfig,
) *RebuildLeaderboardJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &RebuildLeaderboardJob{
		playerRepo: playerRepo,
		cache:      cache,
		eventBus:   eventBus,
		logger:     logger,
		config:     config,
	}
}

// Name returns the job name.
func (j *RebuildLeaderboardJob) Name() string {
	return "rebuild_leaderboard"
}

// Description returns a human-readable description.
func (j *RebuildLeaderboardJob) Description() string {
	return "Rebuilds the cached leaderboard from the player database"
}

// Run executes the rebuild job.
func (j *RebuildLeaderboardJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	j.logger.Info("starting rebuild_leaderboard job")

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	players, err := j.playerRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}

	if err := j.cache.Rebuild(ctx, players); err != nil {
		return fmt.Errorf("failed to rebuild leaderboard cache: %w", err)
	}

	stats := &RebuildStats{
		StartedAt:    startedAt,
		CompletedAt:  time.Now(),
		TotalPlayers: len(players),
	}
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastRebuildStats.Store(stats)

	if j.eventBus != nil {
		event := leaderboardRebuiltEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventLeaderboardRebuilt, "leaderboard"),
			players:   len(players),
		}
		if err := j.eventBus.Publish(event); err != nil {
			j.logger.Warn("failed to publish rebuild event", "error", err)
		}
	}

	j.logger.Info("rebuild_leaderboard job completed",
		"duration", stats.Duration.String(),
		"total_players", stats.TotalPlayers,
	)

	return nil
}

// LastRebuildStats returns statistics from the last rebuild.
func (j *RebuildLeaderboardJob) LastRebuildStats() *RebuildStats {
	stats := j.lastRebuildStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*RebuildStats)
}

type leaderboardRebuiltEvent struct {
	shared.BaseEvent
	players int
}

func (e leaderboardRebuiltEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"total_players": e.players,
	}
}
