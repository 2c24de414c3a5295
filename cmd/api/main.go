package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/tutorwave/lms-support/internal/api/http"
	"github.com/tutorwave/lms-support/internal/api/http/handlers"
	"github.com/tutorwave/lms-support/internal/auth"
	"github.com/tutorwave/lms-support/internal/config"
	"github.com/tutorwave/lms-support/internal/events"
	"github.com/tutorwave/lms-support/internal/mail"
	"github.com/tutorwave/lms-support/internal/notifier"
	"github.com/tutorwave/lms-support/internal/observability"
	"github.com/tutorwave/lms-support/internal/persistence"
	"github.com/tutorwave/lms-support/internal/push"
	"github.com/tutorwave/lms-support/internal/repository"
	"github.com/tutorwave/lms-support/internal/service"
	"github.com/tutorwave/lms-support/internal/storage"
	"github.com/tutorwave/lms-support/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	callRepo := repository.NewCallRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	var uploader storage.Uploader
	if cfg.Storage.Bucket != "" {
		s3Client, err := storage.New(cfg.Storage)
		if err != nil {
			logger.Fatal("failed to init object storage", zap.Error(err))
		}
		uploader = s3Client
	} else {
		logger.Warn("object storage not configured; ticket attachments disabled")
	}

	var mailer mail.Sender
	if cfg.SMTP.Enabled {
		mailer = mail.NewClient(cfg.SMTP)
	} else {
		logger.Warn("smtp disabled; support emails will not be sent")
	}

	dispatcher := events.NewInMemoryDispatcher()
	reminders := worker.NewReminderScheduler(mailer, cfg.Support.BaseURL, cfg.Support.ReminderDelay(), logger)
	ticketNotifier := notifier.New(
		notificationRepo,
		push.NewRedisGateway(redis.Client),
		mailer,
		reminders,
		cfg.Support,
		logger,
	)
	ticketNotifier.RegisterHandlers(dispatcher)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	resolver := service.NewTeacherResolver(callRepo, userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		CallRepo:   callRepo,
		Resolver:   resolver,
		Uploader:   uploader,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Notifications:  handlers.NewNotificationsHandler(notificationRepo),
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

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
