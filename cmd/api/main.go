package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/studiokit/portal/internal/api/http"
	"github.com/studiokit/portal/internal/api/http/handlers"
	"github.com/studiokit/portal/internal/auth"
	"github.com/studiokit/portal/internal/config"
	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/internal/events"
	"github.com/studiokit/portal/internal/observability"
	"github.com/studiokit/portal/internal/persistence"
	"github.com/studiokit/portal/internal/repository"
	"github.com/studiokit/portal/internal/service"
	"github.com/studiokit/portal/internal/storage"
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

	rd := persistence.NewRedis(cfg.Redis, logger)
	defer rd.Close()

	pool := pg.PoolHandle()

	var ticketRepo repository.TicketRepository
	if pool != nil {
		ticketRepo = repository.NewPostgresTicketRepository(pool)
	} else {
		ticketRepo = repository.NewMemoryTicketRepository()
	}

	userRepo := repository.NewMemoryUserRepository()
	seedStaffAccounts(ctx, userRepo, cfg.Auth, logger)

	var dispatcher events.Dispatcher
	if rd.Client != nil {
		dispatcher = events.NewRedisDispatcher(rd.Client, cfg.Redis.EventChannel, logger)
	} else {
		dispatcher = events.NewInMemoryDispatcher()
	}

	var blobOpts []storage.Option
	if latency := cfg.Attachments.UploadLatency(); latency > 0 {
		blobOpts = append(blobOpts, storage.WithLatency(latency))
	}
	blobs := storage.NewMemoryBlobStore(blobOpts...)

	policy := service.NewAttachmentPolicy(cfg.Attachments)
	metrics := observability.NewMetrics()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		BlobStore:  blobs,
		Policy:     policy,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	commentService := service.NewCommentService(ticketRepo, blobs, policy, dispatcher, logger)
	queryEngine := service.NewQueryEngine(ticketRepo)
	statsService := service.NewStatsService(ticketRepo)
	authService := service.NewAuthService(cfg.Auth, userRepo)
	portfolioService := service.NewPortfolioService()
	blogService := service.NewBlogService()
	billingService := service.NewBillingService()

	notifications := service.NewNotificationService(dispatcher, logger)
	notifications.RegisterHandlers()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rd),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, commentService, queryEngine, statsService),
		Portal:         handlers.NewPortalHandler(portfolioService, blogService, billingService),
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

// seedStaffAccounts provisions default support and admin users so the portal
// is usable without an account provisioning flow.
func seedStaffAccounts(ctx context.Context, users repository.UserRepository, cfg config.AuthConfig, logger *zap.Logger) {
	accounts := []struct {
		name  string
		email string
		role  domain.UserRole
	}{
		{name: "Studio Support", email: "support@studiokit.dev", role: domain.UserRoleSupport},
		{name: "Studio Admin", email: "admin@studiokit.dev", role: domain.UserRoleAdmin},
	}

	for _, account := range accounts {
		password := os.Getenv("SEED_STAFF_PASSWORD")
		if password == "" {
			password = "change-me-now"
		}
		hash, err := auth.HashPassword(password, cfg.BcryptCost)
		if err != nil {
			logger.Warn("failed to hash seed password", zap.Error(err))
			return
		}
		user := &domain.User{
			Name:         account.name,
			Email:        account.email,
			PasswordHash: hash,
			Role:         account.role,
		}
		if err := users.Create(ctx, user); err != nil {
			logger.Warn("failed to seed staff account", zap.String("email", account.email), zap.Error(err))
			continue
		}
		logger.Info("seeded staff account", zap.String("email", account.email), zap.String("role", string(account.role)))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
