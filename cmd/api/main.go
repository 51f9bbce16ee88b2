package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-portal/internal/api/http"
	"github.com/spec-kit/support-portal/internal/api/http/handlers"
	"github.com/spec-kit/support-portal/internal/assignment"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/config"
	"github.com/spec-kit/support-portal/internal/events"
	"github.com/spec-kit/support-portal/internal/notification"
	"github.com/spec-kit/support-portal/internal/observability"
	"github.com/spec-kit/support-portal/internal/persistence"
	"github.com/spec-kit/support-portal/internal/repository"
	"github.com/spec-kit/support-portal/internal/service"
	"github.com/spec-kit/support-portal/internal/sla"
	"github.com/spec-kit/support-portal/internal/worker"
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
	attendantRepo := repository.NewAttendantRepository(pool)
	supportRepo := repository.NewSupportTicketRepository(pool)
	collectionsRepo := repository.NewCollectionsTicketRepository(pool)
	postAwardRepo := repository.NewPostAwardTicketRepository(pool)
	reasonRepo := repository.NewReasonAssignmentRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	clock := sla.NewClock(cfg.SLA.ThresholdHours)
	engine := assignment.NewEngine()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:      userRepo,
		AttendantRepo: attendantRepo,
	})
	attendantService := service.NewAttendantService(service.AttendantDependencies{
		AttendantRepo: attendantRepo,
		ReasonRepo:    reasonRepo,
		Engine:        engine,
		BcryptCost:    cfg.Auth.BcryptCost,
		Logger:        logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		SupportRepo:     supportRepo,
		CollectionsRepo: collectionsRepo,
		PostAwardRepo:   postAwardRepo,
		AttendantRepo:   attendantRepo,
		HistoryRepo:     historyRepo,
		Engine:          engine,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		SupportRepo:     supportRepo,
		CollectionsRepo: collectionsRepo,
		PostAwardRepo:   postAwardRepo,
		Aggregator:      notification.NewAggregator(clock),
		Cache:           redis.Client,
		Config:          cfg.Notification,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
	})

	if err := attendantService.RefreshEngine(ctx); err != nil {
		logger.Fatal("failed to load assignment rotation", zap.Error(err))
	}
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, attendantRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:            handlers.NewUsersHandler(authService),
		Attendants:       handlers.NewAttendantsHandler(authService, attendantService),
		Tickets:          handlers.NewTicketsHandler(ticketService, clock),
		AttendantTickets: handlers.NewAttendantTicketsHandler(ticketService, clock),
		Notifications:    handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware:   authMiddleware,
		MetricsHandler:   metrics.Handler(),
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
