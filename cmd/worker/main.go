// Package main is the entry point for the Playzo background worker.
//
// The worker runs the periodic jobs behind the API:
//   - Rebuilding the cached leaderboard from the player database
//   - Expiring offers whose end date has passed
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playzo/playzo-backend/config"
	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/infrastructure/messaging"
	"github.com/playzo/playzo-backend/internal/infrastructure/persistence/postgres"
	"github.com/playzo/playzo-backend/internal/infrastructure/persistence/redis"
	"github.com/playzo/playzo-backend/internal/infrastructure/scheduler"
	"github.com/playzo/playzo-backend/internal/infrastructure/scheduler/jobs"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Playzo worker",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	if !cfg.Scheduler.Enabled {
		return errors.New("scheduler is disabled; nothing to do (set SCHEDULER_ENABLED=true)")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// The worker migrates too so it never runs against a stale schema.
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (required for leaderboard rebuilds, optional otherwise)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var leaderboardCache player.LeaderboardCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCache, err = redis.NewCache(redisConfig(cfg))
		if err != nil {
			log.Warn("failed to connect to Redis, leaderboard rebuilds disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			leaderboardCache = redis.NewLeaderboardCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES & EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	playerRepo := postgres.NewPlayerRepository(dbConn)
	offerRepo := postgres.NewOfferRepository(dbConn)

	eventBus, err := buildEventBus(cfg, redisCache, log)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	defer func() {
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. SCHEDULER & JOBS
	// ─────────────────────────────────────────────────────────────────────────
	schedCfg := scheduler.DefaultSchedulerConfig()
	schedCfg.Logger = log
	schedCfg.Timezone = cfg.App.Location
	sched := scheduler.NewScheduler(schedCfg)

	if leaderboardCache != nil {
		rebuildCfg := jobs.DefaultRebuildLeaderboardConfig()
		rebuildCfg.Timeout = cfg.Scheduler.JobTimeout
		rebuildJob := jobs.NewRebuildLeaderboardJob(playerRepo, leaderboardCache, eventBus, log, rebuildCfg)

		if err := sched.Register(rebuildJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildLeaderboardInterval)); err != nil {
			return fmt.Errorf("failed to register rebuild job: %w", err)
		}
	}

	if cfg.Features.IsEnabled(config.FeatureOffersAutoExpire, nil) {
		expirySchedule, err := expireOffersSchedule(cfg)
		if err != nil {
			return fmt.Errorf("invalid offer expiry schedule: %w", err)
		}

		expireJob := jobs.NewExpireOffersJob(offerRepo, eventBus, log)
		if err := sched.Register(expireJob, expirySchedule); err != nil {
			return fmt.Errorf("failed to register expiry job: %w", err)
		}
	} else {
		log.Info("offer auto-expiry is disabled by feature flag")
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	expirySchedule := cfg.Scheduler.ExpireOffersInterval.String()
	if cfg.Scheduler.ExpireOffersCron != "" {
		expirySchedule = cfg.Scheduler.ExpireOffersCron
	}
	log.Info("Playzo worker is running",
		"leaderboard_interval", cfg.Scheduler.RebuildLeaderboardInterval.String(),
		"offer_expiry_schedule", expirySchedule,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	if err := sched.Stop(); err != nil {
		log.Warn("scheduler stop reported error", "error", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// buildEventBus selects the configured event bus. The Redis Pub/Sub bus lets
// the worker see events published by the API (and vice versa); without Redis
// events stay in process.
func buildEventBus(cfg *config.Config, cache *redis.Cache, log *slog.Logger) (shared.EventBus, error) {
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log

	if cfg.Messaging.Bus == config.EventBusRedis {
		if cache == nil {
			log.Warn("EVENT_BUS=redis but Redis is unavailable, falling back to in-memory bus")
		} else {
			return messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
				Client:         messaging.NewCacheRedisClient(cache),
				ChannelName:    cfg.Messaging.Channel,
				LocalBusConfig: busCfg,
				Logger:         log,
			})
		}
	}

	return messaging.NewInMemoryEventBus(busCfg), nil
}

// expireOffersSchedule picks the offer expiry schedule. A cron expression in
// SCHEDULER_OFFER_EXPIRY_CRON pins the sweep to wall-clock times, for example
// "0 3 * * *" for a nightly run; otherwise the sweep runs on a fixed interval.
func expireOffersSchedule(cfg *config.Config) (scheduler.Schedule, error) {
	if expr := cfg.Scheduler.ExpireOffersCron; expr != "" {
		return scheduler.ParseCronExpression(expr)
	}
	return scheduler.NewIntervalSchedule(cfg.Scheduler.ExpireOffersInterval), nil
}

// redisConfig maps the application config onto the Redis client config.
func redisConfig(cfg *config.Config) redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	rc.MinIdleConns = cfg.Redis.MinIdleConns
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.ReadTimeout = cfg.Redis.ReadTimeout
	rc.WriteTimeout = cfg.Redis.WriteTimeout
	return rc
}
