package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/blogify-press/backend-go/internal/api"
	"github.com/blogify-press/backend-go/internal/config"
	"github.com/blogify-press/backend-go/internal/database"
	"github.com/blogify-press/backend-go/internal/database/repository"
	"github.com/blogify-press/backend-go/internal/database/service"
	"github.com/blogify-press/backend-go/internal/email"
	"github.com/blogify-press/backend-go/internal/handler"
	"github.com/blogify-press/backend-go/internal/logger"
	"github.com/blogify-press/backend-go/internal/metrics"
	"github.com/blogify-press/backend-go/internal/middleware"
	"github.com/blogify-press/backend-go/internal/recaptcha"
	"github.com/blogify-press/backend-go/internal/token"
	"github.com/blogify-press/backend-go/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)
	appLogger.Info("🚀 [Go] Starting Blogify API...",
		"environment", cfg.AppEnv,
		"version", version,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Token manager
	tokens, err := token.NewManager(token.Options{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     time.Duration(cfg.AccessTokenExpiration) * time.Second,
		RefreshTTL:    time.Duration(cfg.RefreshTokenExpiration) * time.Second,
		ResetTTL:      time.Duration(cfg.ResetTokenExpiration) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	// 4. Connect to Database
	db, err := database.ConnectDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// 5. Background workers
	pool := worker.NewPool(appLogger)

	// 6. Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	logRepo := repository.NewActivityLogRepository(db)
	if cfg.ActivityLogBackend == "mongo" {
		mongoClient, mongoDB, err := database.ConnectMongo(ctx, cfg, appLogger)
		if err != nil {
			return err
		}
		defer mongoClient.Disconnect(context.Background())
		logRepo = repository.NewMongoActivityLogRepository(mongoDB)
	}

	// 7. Rate limiter, falling back to no-op without Redis
	var rateLimiter middleware.RateLimiter
	redisClient, err := database.ConnectRedis(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis, using no-op rate limiter", "error", err)
		rateLimiter = middleware.NewNoOpRateLimiter(appLogger)
	} else {
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, appLogger)
	}
	defer rateLimiter.Close()

	// 8. External collaborators
	mailer, err := email.New(cfg, appLogger)
	if err != nil {
		return err
	}
	captcha := recaptcha.NewClient(cfg.RecaptchaSecret, cfg.RecaptchaVerifyURL, appLogger)
	appMetrics := metrics.New()

	// 9. Services
	activityService := service.NewActivityService(logRepo, pool, appLogger)
	lifecycleService := service.NewLifecycleService(userRepo, postRepo, activityService, appMetrics, appLogger)
	authService := service.NewAuthService(service.AuthDeps{
		Users:     userRepo,
		Tokens:    tokens,
		Hasher:    service.NewBcryptHasher(cfg.BcryptCost),
		Lifecycle: lifecycleService,
		Activity:  activityService,
		Mailer:    mailer,
		Captcha:   captcha,
		Metrics:   appMetrics,
	}, cfg, appLogger)
	userService := service.NewUserService(userRepo, activityService, appLogger)
	postService := service.NewPostService(postRepo, activityService, appLogger)

	// 10. Handlers & router
	cookies := handler.CookieWriter{Secure: cfg.IsProduction()}
	r := api.SetupRouter(api.Handlers{
		Auth:         handler.NewAuthHandler(authService, cookies, appLogger),
		User:         handler.NewUserHandler(userService, lifecycleService, cookies, appLogger),
		Post:         handler.NewPostHandler(postService, lifecycleService, appLogger),
		Admin:        handler.NewAdminHandler(activityService, appLogger),
		Subscription: handler.NewSubscriptionHandler(mailer, appLogger),
	}, api.RouterDeps{
		AuthMiddleware: middleware.NewAuthMiddleware(authService, appLogger),
		RateLimiter:    rateLimiter,
		Sanitizer:      middleware.NewSanitizer(appLogger),
		Metrics:        appMetrics,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         appLogger,
	})

	// 11. Start HTTP Server
	srv := &http.Server{
		Addr:              ":" + cfg.ApiServicePort,
		Handler:           r,
		ReadHeaderTimeout: cfg.RequestTimeout,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      2 * cfg.RequestTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", cfg.ApiServicePort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		appLogger.Info("🛑 [Go] Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("❌ HTTP Server shutdown failed", "error", err)
	}

	pool.Shutdown(shutdownTimeout)
	appLogger.Info("👋 [Go] Server stopped")
	return nil
}

