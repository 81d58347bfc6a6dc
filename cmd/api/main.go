package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/workdesk-labs/work-mediator/internal/api/http"
	"github.com/workdesk-labs/work-mediator/internal/api/http/handlers"
	"github.com/workdesk-labs/work-mediator/internal/auth"
	"github.com/workdesk-labs/work-mediator/internal/config"
	"github.com/workdesk-labs/work-mediator/internal/domain"
	"github.com/workdesk-labs/work-mediator/internal/events"
	"github.com/workdesk-labs/work-mediator/internal/llm"
	"github.com/workdesk-labs/work-mediator/internal/observability"
	"github.com/workdesk-labs/work-mediator/internal/persistence"
	"github.com/workdesk-labs/work-mediator/internal/repository"
	"github.com/workdesk-labs/work-mediator/internal/service"
	"github.com/workdesk-labs/work-mediator/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policy, err := domain.ParseTicketPolicy(cfg.Ticket.MinTextLength, cfg.Ticket.RequiredFields)
	if err != nil {
		logger.Fatal("invalid ticket policy", zap.Error(err))
	}
	fallback, ok := domain.ParseDepartmentKey(cfg.Routing.FallbackDept)
	if !ok {
		logger.Fatal("invalid ROUTING_FALLBACK_DEPT", zap.String("dept", cfg.Routing.FallbackDept))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	members := repository.NewMemberRepository(pg.PoolHandle())
	guidelines := repository.NewGuidelineRepository(redis.Client, redis.KeyPrefix)
	if _, err := repository.SeedGuidelines(ctx, guidelines, cfg.Retrieval.SeedPath, logger); err != nil {
		logger.Warn("guideline seeding failed", zap.Error(err))
	}

	generator, err := llm.New(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to build generator", zap.Error(err))
	}
	defer generator.Close() //nolint:errcheck
	logger.Info("generator ready", zap.String("backend", generator.Name()))

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	mediator := service.NewMediationService(service.MediationDependencies{
		Generator:    generator,
		Retriever:    guidelines,
		Members:      members,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
		Policy:       policy,
		TopK:         cfg.Retrieval.TopK,
		FallbackDept: fallback,
		Now:          time.Now,
	})

	var tokens *auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, 0)
	}
	authMiddleware := auth.NewAuthMiddleware(cfg.Auth.BackendAPIKey, tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Prefix: cfg.App.APIPrefix,
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Chat:           handlers.NewChatHandler(mediator),
		Guidelines:     handlers.NewGuidelinesHandler(guidelines),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.ShutdownWithTimeout(10 * time.Second)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
