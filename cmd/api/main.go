package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/flat-service/internal/api/http"
	"github.com/spec-kit/flat-service/internal/api/http/handlers"
	"github.com/spec-kit/flat-service/internal/auth"
	"github.com/spec-kit/flat-service/internal/config"
	"github.com/spec-kit/flat-service/internal/events"
	"github.com/spec-kit/flat-service/internal/observability"
	"github.com/spec-kit/flat-service/internal/persistence"
	"github.com/spec-kit/flat-service/internal/repository"
	"github.com/spec-kit/flat-service/internal/service"
	"github.com/spec-kit/flat-service/internal/storage"
	"github.com/spec-kit/flat-service/internal/worker"
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
	flatRepo := repository.NewFlatRepository(pool)

	objectStore := storage.NewCloudinary(cfg.Storage)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Storage:    objectStore,
		Dispatcher: dispatcher,
	})
	flatService := service.NewFlatService(*cfg, service.FlatDependencies{
		FlatRepo:   flatRepo,
		Storage:    objectStore,
		Dispatcher: dispatcher,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	gate := auth.NewMiddleware(authService)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Upload.MaxImageBytes) * (cfg.Upload.MaxListingImages + 1),
	})
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.IsProduction())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Flats:         handlers.NewFlatHandler(flatService),
		Gate:          gate,
		LoginThrottle: httptransport.LoginThrottle(cfg.Throttle, redis.Client, logger),
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
