// Package main is the entry point for the Playzo API server.
//
// The API serves:
//   - Authentication (register, login, token refresh, logout)
//   - Player profiles and game statistics
//   - Leaderboards and rankings
//   - The offers catalog and its moderator actions
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
	"github.com/playzo/playzo-backend/internal/application/command"
	"github.com/playzo/playzo-backend/internal/application/eventhandler"
	"github.com/playzo/playzo-backend/internal/application/query"
	"github.com/playzo/playzo-backend/internal/domain/player"
	"github.com/playzo/playzo-backend/internal/domain/shared"
	"github.com/playzo/playzo-backend/internal/domain/user"
	"github.com/playzo/playzo-backend/internal/infrastructure/auth"
	"github.com/playzo/playzo-backend/internal/infrastructure/messaging"
	"github.com/playzo/playzo-backend/internal/infrastructure/persistence/postgres"
	"github.com/playzo/playzo-backend/internal/infrastructure/persistence/redis"
	"github.com/playzo/playzo-backend/internal/infrastructure/service"
	httpapi "github.com/playzo/playzo-backend/internal/interface/http"
	"github.com/playzo/playzo-backend/internal/interface/http/handlers"
	"github.com/playzo/playzo-backend/pkg/logger"
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
	log.Info("starting Playzo API server",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	httpLogger := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})

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

	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (optional; the API degrades to database reads without it)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var leaderboardCache player.LeaderboardCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCache, err = redis.NewCache(redisConfig(cfg))
		if err != nil {
			log.Warn("failed to connect to Redis, running without cache", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			leaderboardCache = redis.NewLeaderboardCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(dbConn)
	playerRepo := postgres.NewPlayerRepository(dbConn)
	offerRepo := postgres.NewOfferRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS & SUBSCRIPTIONS
	// ─────────────────────────────────────────────────────────────────────────
	eventBus, err := buildEventBus(cfg, redisCache, log)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	defer func() {
		_ = eventBus.Close()
	}()

	scoreHandler := eventhandler.NewOnScoreRecordedHandler(playerRepo, leaderboardCache, log)
	_ = eventBus.Subscribe(shared.EventScoreRecorded, scoreHandler.Handle)
	_ = eventBus.Subscribe(shared.EventWinRecorded, scoreHandler.Handle)

	tierHandler := eventhandler.NewOnTierChangedHandler(log)
	_ = eventBus.Subscribe(shared.EventTierChanged, tierHandler.Handle)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. AUTHENTICATION
	// ─────────────────────────────────────────────────────────────────────────
	tokenManager, err := auth.NewTokenManager(auth.Config{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}

	var revoker user.TokenRevoker
	if redisCache != nil {
		revoker = redis.NewTokenStore(redisCache)
	} else {
		log.Warn("using in-memory token revocation; revocations will not survive restarts")
		revoker = auth.NewMemoryRevoker()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION HANDLERS (CQRS)
	// ─────────────────────────────────────────────────────────────────────────
	rankingSource := service.NewLeaderboardService(playerRepo, leaderboardCache, nil)

	deps := httpapi.Dependencies{
		RegisterPlayerHandler:   command.NewRegisterPlayerHandler(userRepo, playerRepo, eventBus),
		UpdatePlayerHandler:     command.NewUpdatePlayerHandler(playerRepo, eventBus),
		RecordGameResultHandler: command.NewRecordGameResultHandler(playerRepo, eventBus),
		RecordWinHandler:        command.NewRecordWinHandler(playerRepo, eventBus),
		ManageOfferHandler:      command.NewManageOfferHandler(offerRepo, userRepo, eventBus),
		LoginHandler:            command.NewLoginHandler(userRepo, tokenManager, eventBus),
		RefreshTokenHandler:     command.NewRefreshTokenHandler(userRepo, tokenManager, revoker),
		LogoutHandler:           command.NewLogoutHandler(tokenManager, revoker, eventBus),
		ChangePasswordHandler:   command.NewChangePasswordHandler(userRepo),

		GetLeaderboardHandler: query.NewGetLeaderboardHandler(playerRepo, rankingSource),
		GetRankingsHandler:    query.NewGetRankingsHandler(playerRepo),
		GetPlayerStatsHandler: query.NewGetPlayerStatsHandler(playerRepo),
		ListOffersHandler:     query.NewListOffersHandler(offerRepo),

		Tokens:     tokenManager,
		PlayerRepo: playerRepo,
		Features:   cfg.Features,
		Logger:     httpLogger,

		HealthChecker: buildHealthChecker(cfg, dbConn, redisCache),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpapi.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.MaxBodyBytes = cfg.HTTP.MaxBodyBytes
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.EnableMetrics = cfg.Observability.MetricsEnabled

	server := httpapi.NewServer(serverCfg, deps)

	log.Info("starting HTTP server", "address", server.Address())
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging for infrastructure components.
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

// buildEventBus selects the configured event bus. The Redis Pub/Sub bus is
// only used when Redis is actually connected; otherwise events stay in
// process.
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

// buildHealthChecker wires connectivity checks for the health endpoints.
func buildHealthChecker(cfg *config.Config, db *postgres.Connection, cache *redis.Cache) handlers.HealthChecker {
	checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	checker.AddCheck("database", handlers.NewDatabaseCheck(db))
	if cache != nil {
		checker.AddCheck("cache", handlers.NewCacheCheck(cache))
	}
	return checker
}
