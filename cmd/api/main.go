package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/animation-service/internal/api/http"
	"github.com/spec-kit/animation-service/internal/api/http/handlers"
	"github.com/spec-kit/animation-service/internal/auth"
	"github.com/spec-kit/animation-service/internal/config"
	"github.com/spec-kit/animation-service/internal/events"
	"github.com/spec-kit/animation-service/internal/observability"
	"github.com/spec-kit/animation-service/internal/persistence"
	"github.com/spec-kit/animation-service/internal/repository"
	"github.com/spec-kit/animation-service/internal/service"
	"github.com/spec-kit/animation-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingSigningSecret) {
			log.Fatalf("refusing to start without a token signing secret: %v", err)
		}
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo, animationRepo := buildRepositories(pg)

	var cache goredis.Cmdable
	if redis.Enabled() {
		cache = redis.Client
	}
	animationRepo = repository.NewCachedAnimationRepository(animationRepo, cache, cfg.Redis.CacheTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	var authenticator auth.Authenticator
	switch cfg.Auth.Mode {
	case config.AuthModeStore:
		authenticator = auth.NewStoreAuthenticator(userRepo, cfg.Auth.StoreTimeout())
	default:
		authenticator = auth.NewFixedAuthenticator(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	}

	metrics := observability.NewMetrics()
	gate := auth.NewRequestGate(auth.GateDependencies{
		Authenticator: authenticator,
		Tokens:        tokens,
		Policy:        auth.NewPolicy(cfg.Auth.SingleTenant),
		Logger:        logger,
		Recorder:      metrics,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: !cfg.App.Debug,
	})
	httptransport.RegisterMiddlewares(app, cfg.App, logger, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(gate),
		Users:          handlers.NewUsersHandler(service.NewUserService(userRepo, dispatcher, logger)),
		Animations:     handlers.NewAnimationsHandler(service.NewAnimationService(animationRepo, dispatcher, logger)),
		AuthMiddleware: auth.NewAuthMiddleware(gate),
		Metrics:        metrics,
	})

	logger.Info("starting server",
		zap.String("addr", cfg.App.Addr()),
		zap.String("auth_mode", cfg.Auth.Mode),
		zap.Bool("single_tenant", cfg.Auth.SingleTenant),
	)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildRepositories(pg *persistence.Postgres) (repository.UserRepository, repository.AnimationRepository) {
	if !pg.Enabled() {
		return repository.NewMemoryUserRepository(), repository.NewMemoryAnimationRepository()
	}
	tx := persistence.NewTransactor(pg.PoolHandle())
	return repository.NewUserRepository(tx), repository.NewAnimationRepository(tx)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
