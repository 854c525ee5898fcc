// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/desieventsleeds/go-backend/internal/admin"
	"github.com/desieventsleeds/go-backend/internal/analytics"
	"github.com/desieventsleeds/go-backend/internal/auth"
	"github.com/desieventsleeds/go-backend/internal/config"
	"github.com/desieventsleeds/go-backend/internal/core"
	"github.com/desieventsleeds/go-backend/internal/event"
	"github.com/desieventsleeds/go-backend/internal/health"
	"github.com/desieventsleeds/go-backend/internal/mailer"
	"github.com/desieventsleeds/go-backend/internal/middleware"
	"github.com/desieventsleeds/go-backend/internal/server"
	"github.com/desieventsleeds/go-backend/internal/uploads"
	"github.com/desieventsleeds/go-backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	//nolint:errcheck // a missing .env file is fine in production
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	var sender mailer.Sender
	if cfg.Mail.Enabled() {
		sender = mailer.NewSMTPSender(cfg.Mail)
		logger.Info("smtp sender configured", "host", cfg.Mail.SMTPHost)
	} else {
		sender = mailer.NewLogSender(logger)
		logger.Warn("smtp not configured, mail will be logged only")
	}
	dispatcher := mailer.NewDispatcher(sender, logger, cfg.Moderation.NotifyTimeout)
	notifier := mailer.NewNotifier(
		dispatcher,
		logger,
		cfg.App.PublicBaseURL,
		cfg.Moderation.AdminEmail,
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	eventRepo := event.NewRepository(db.DB)

	analyticsRepo := analytics.NewRepository(db.DB)
	analyticsSvc := analytics.NewService(analyticsRepo, userSvc, eventRepo, logger)
	analyticsHandler := analytics.NewHandler(analyticsSvc)

	eventSvc := event.NewService(
		eventRepo,
		userSvc,
		analyticsSvc,
		notifier,
		cfg.Moderation.ApprovalTokenTTL,
		logger,
	)
	eventHandler := event.NewHandler(eventSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		jwtManager,
		userSvc,
		redis.Client,
		analyticsSvc,
		notifier,
		cfg.Moderation.ResetTokenTTL,
	)
	authHandler := auth.NewHandler(authSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Pending:    eventSvc,
	})

	var uploadsHandler *uploads.Handler
	if cfg.Cloudinary.URL != "" {
		cld, cldErr := cloudinary.NewFromURL(cfg.Cloudinary.URL)
		if cldErr != nil {
			return cldErr
		}
		uploadsHandler = uploads.NewHandler(cld, cfg.Cloudinary.Folder)
	} else {
		logger.Warn("cloudinary not configured, uploads disabled")
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.ClientInfo)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager)
	optionalAuth := middleware.OptionalAuth(jwtManager)

	authHandler.RegisterRoutes(router, authenticator)
	userHandler.RegisterRoutes(router, authenticator)
	eventHandler.RegisterRoutes(router, authenticator, optionalAuth)

	router.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		analyticsHandler.RegisterRoutes(r)
	})

	if uploadsHandler != nil {
		router.Group(func(r chi.Router) {
			r.Use(authenticator)
			uploadsHandler.RegisterRoutes(r)
		})
	}

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireAdmin)

		eventHandler.RegisterAdminRoutes(r)
		analyticsHandler.RegisterAdminRoutes(r)
		userHandler.RegisterAdminRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	dispatcher.Wait()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
