package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/portal-gateway/internal/api/http"
	"github.com/spec-kit/portal-gateway/internal/api/http/handlers"
	"github.com/spec-kit/portal-gateway/internal/auth"
	"github.com/spec-kit/portal-gateway/internal/authz"
	"github.com/spec-kit/portal-gateway/internal/config"
	"github.com/spec-kit/portal-gateway/internal/events"
	"github.com/spec-kit/portal-gateway/internal/observability"
	"github.com/spec-kit/portal-gateway/internal/persistence"
	"github.com/spec-kit/portal-gateway/internal/repository"
	"github.com/spec-kit/portal-gateway/internal/service"
	"github.com/spec-kit/portal-gateway/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	invitationRepo := repository.NewInvitationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	revoker := auth.NewSessionRevoker(redis.Client)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		InvitationRepo: invitationRepo,
		Revoker:        revoker,
		Dispatcher:     dispatcher,
	})
	invitationService := service.NewInvitationService(cfg.Invite, invitationRepo, dispatcher)
	resolver := service.NewInvitationResolver(invitationRepo, dispatcher, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification, cfg.Invite)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()
	sessionMiddleware := auth.NewSessionMiddleware(authService.TokenManager(), revoker, logger)
	gate := authz.NewSurfaceGate(auth.SessionFromContext, logger, metrics)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:        handlers.NewAuthHandler(authService),
		Invite:      handlers.NewInviteHandler(invitationRepo, resolver),
		Invitations: handlers.NewInvitationsHandler(invitationService),
		Surfaces:    handlers.NewSurfaceHandler(),
		Session:     sessionMiddleware,
		Gate:        gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
