package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/consultancy-service/internal/api/http"
	"github.com/spec-kit/consultancy-service/internal/api/http/handlers"
	"github.com/spec-kit/consultancy-service/internal/auth"
	"github.com/spec-kit/consultancy-service/internal/config"
	"github.com/spec-kit/consultancy-service/internal/events"
	"github.com/spec-kit/consultancy-service/internal/observability"
	"github.com/spec-kit/consultancy-service/internal/persistence"
	"github.com/spec-kit/consultancy-service/internal/repository"
	"github.com/spec-kit/consultancy-service/internal/service"
	"github.com/spec-kit/consultancy-service/internal/storage"
	"github.com/spec-kit/consultancy-service/internal/worker"
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

	documentStore := newDocumentStore(ctx, cfg.Storage, logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	windowRepo := repository.NewWindowRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	updateRepo := repository.NewBookingUpdateRepository(pool)
	historyRepo := repository.NewBookingHistoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		ProfileRepo:       profileRepo,
		PasswordResetRepo: resetRepo,
	})
	profileService := service.NewProfileService(profileRepo, documentRepo, documentStore)
	verificationService := service.NewVerificationService(service.VerificationDependencies{
		DocumentRepo: documentRepo,
		ProfileRepo:  profileRepo,
		Dispatcher:   dispatcher,
	})
	catalogCache := persistence.NewCatalogCache(redis, logger)
	catalogService := service.NewCatalogService(catalogRepo, windowRepo, catalogCache, cfg.Catalog.CacheTTL())
	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo: bookingRepo,
		WindowRepo:  windowRepo,
		CatalogRepo: catalogRepo,
		ProfileRepo: profileRepo,
		UserRepo:    userRepo,
		UpdateRepo:  updateRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	notificationService := service.NewNotificationService(cfg.Notification, logger)
	worker.StartNotificationWorker(dispatcher, notificationService, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 10 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Profile:        handlers.NewProfileHandler(profileService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		StaffBookings:  handlers.NewStaffBookingsHandler(bookingService),
		AdminCatalog:   handlers.NewAdminCatalogHandler(catalogService),
		AdminDocuments: handlers.NewAdminDocumentsHandler(profileService, verificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// newDocumentStore prefers the configured object store and falls back to
// memory when no credentials are present, as in local development.
func newDocumentStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) storage.DocumentStore {
	if cfg.AccessKey == "" {
		logger.Warn("no storage credentials; using in-memory document store")
		return storage.NewMemoryStore()
	}

	store, err := storage.NewObjectStore(cfg)
	if err != nil {
		logger.Warn("object store unavailable; using in-memory document store", zap.Error(err))
		return storage.NewMemoryStore()
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Warn("bucket check failed; using in-memory document store", zap.Error(err))
		return storage.NewMemoryStore()
	}

	logger.Info("connected to object storage", zap.String("bucket", cfg.Bucket))
	return store
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
