package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/campus-transit/grievance-service/internal/api/http"
	"github.com/campus-transit/grievance-service/internal/api/http/handlers"
	"github.com/campus-transit/grievance-service/internal/auth"
	"github.com/campus-transit/grievance-service/internal/cache"
	"github.com/campus-transit/grievance-service/internal/config"
	"github.com/campus-transit/grievance-service/internal/events"
	"github.com/campus-transit/grievance-service/internal/observability"
	"github.com/campus-transit/grievance-service/internal/persistence"
	"github.com/campus-transit/grievance-service/internal/repository"
	"github.com/campus-transit/grievance-service/internal/service"
	"github.com/campus-transit/grievance-service/internal/worker"
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	grievanceRepo := repository.NewGrievanceRepository(pool)
	historyRepo := repository.NewAssignmentHistoryRepository(pool)
	activityRepo := repository.NewActivityLogRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher:       dispatcher,
		NotificationRepo: notificationRepo,
		ActivityRepo:     activityRepo,
		StaffRepo:        staffRepo,
	}, logger, cfg.Notification)
	worker.StartNotificationWorker(logger, notificationService)

	staffDirectory := service.NewStaffDirectory(
		staffRepo,
		cache.NewRedisStaffCache(redis.Handle(), cfg.Assignment.StaffCacheTTL()),
		logger,
	)
	assignmentService := service.NewAssignmentService(cfg.Assignment, service.AssignmentDependencies{
		GrievanceRepo: grievanceRepo,
		HistoryRepo:   historyRepo,
		Staff:         staffDirectory,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	authService := service.NewAuthService(*cfg, staffRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := httptransport.NewApp(cfg.App.Name, httptransport.AppDependencies{
		Logger:         logger,
		RequestTimeout: cfg.App.RequestTimeout(),
	}, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Assignments:    handlers.NewAssignmentHandler(assignmentService),
		AuthMiddleware: authMiddleware.Handle,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
