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

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/coursemarket/internal/admin"
	"github.com/carterperez-dev/coursemarket/internal/auth"
	"github.com/carterperez-dev/coursemarket/internal/category"
	"github.com/carterperez-dev/coursemarket/internal/config"
	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/creator"
	"github.com/carterperez-dev/coursemarket/internal/health"
	"github.com/carterperez-dev/coursemarket/internal/media"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
	"github.com/carterperez-dev/coursemarket/internal/payment"
	"github.com/carterperez-dev/coursemarket/internal/product"
	"github.com/carterperez-dev/coursemarket/internal/purchase"
	"github.com/carterperez-dev/coursemarket/internal/sales"
	"github.com/carterperez-dev/coursemarket/internal/server"
	"github.com/carterperez-dev/coursemarket/internal/storage"
	"github.com/carterperez-dev/coursemarket/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

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

	logger := setupLogger(cfg.Log, cfg.IsDevelopment())
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

	store, err := storage.NewS3Gateway(cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("object storage configured",
		"bucket", cfg.Storage.Bucket,
		"region", cfg.Storage.Region,
		"custom_endpoint", cfg.Storage.Endpoint != "",
	)

	payments := payment.NewStripeGateway(cfg.Stripe, cfg.Platform.Currency)

	creatorSvc := creator.NewService(creator.NewRepository(db.DB))
	creatorHandler := creator.NewHandler(creatorSvc)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, creatorSvc)
	userHandler := user.NewHandler(userSvc)

	blacklist := auth.NewRedisBlacklist(redis.Client)
	verifier := auth.NewVerifier(jwtManager, blacklist, userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, blacklist, logger)
	authHandler := auth.NewHandler(authSvc)

	categoryHandler := category.NewHandler(
		category.NewService(category.NewRepository(db.DB)),
	)

	mediaRepo := media.NewRepository(db.DB)

	productSvc := product.NewService(
		product.NewRepository(db.DB),
		creatorSvc,
		media.NewUploaders(mediaRepo),
	)
	productHandler := product.NewHandler(productSvc)

	purchaseSvc := purchase.NewService(
		purchase.NewRepository(db.DB),
		productSvc,
		payments,
		cfg.Platform,
		logger,
	)
	purchaseHandler := purchase.NewHandler(purchaseSvc)

	mediaSvc := media.NewService(
		mediaRepo,
		store,
		productSvc,
		purchaseSvc,
		cfg.Storage.DownloadExpiry,
		logger,
	)
	mediaHandler := media.NewHandler(mediaSvc)

	salesHandler := sales.NewHandler(
		sales.NewService(sales.NewRepository(db.DB), creatorSvc),
	)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Market:     purchaseSvc,
		Sessions:   authSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:   true,
			BypassFunc: middleware.BypassPaths("/v1/webhooks"),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)
	adminOnly := middleware.RequireAdmin

	checkoutLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(cfg.RateLimit.CheckoutPerMinute, cfg.RateLimit.CheckoutPerMinute),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	}).Handler
	uploadLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerHour(cfg.RateLimit.UploadsPerHour, cfg.RateLimit.UploadsPerHour/4+1),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		r.Post("/users", authHandler.Register)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		creatorHandler.RegisterRoutes(r, authenticator)
		categoryHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r, authenticator, optionalAuth)
		purchaseHandler.RegisterRoutes(r, authenticator, checkoutLimit)
		mediaHandler.RegisterRoutes(r, authenticator, uploadLimit)
		salesHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	healthHandler.SetReady(true)

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

func setupLogger(cfg config.LogConfig, development bool) *slog.Logger {
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

	opts := &slog.HandlerOptions{Level: level, AddSource: development}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
