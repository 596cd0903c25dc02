package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/app"
	"github.com/thedon-dev/Final-Year-Project/internal/featureflags"
	"github.com/thedon-dev/Final-Year-Project/internal/handler"
	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/logger"
	"github.com/thedon-dev/Final-Year-Project/internal/infrastructure/redis"
	"github.com/thedon-dev/Final-Year-Project/internal/observability/tracing"
	"github.com/thedon-dev/Final-Year-Project/internal/security"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
	"github.com/thedon-dev/Final-Year-Project/internal/security/ratelimit"
	"github.com/thedon-dev/Final-Year-Project/internal/service"
	"github.com/thedon-dev/Final-Year-Project/internal/worker"
	"github.com/thedon-dev/Final-Year-Project/pkg/cache"
	"github.com/thedon-dev/Final-Year-Project/pkg/config"
)

const cacheJanitorInterval = 10 * time.Minute

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting property management server",
		slog.String("environment", cfg.Environment),
		slog.String("store", cfg.StoreBackend),
		slog.Bool("strict_transitions", featureflags.StrictTransitions()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "property-api", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Open the document store
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	repos := store.Repos

	// 4. Redis is optional; without it throttling and reminder dedupe stay in process
	var (
		redisClient *redis.Client
		throttle    ratelimit.Throttle
		dedupe      worker.Deduper
		redisPinger handler.Pinger
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		throttle = ratelimit.NewRedisLimiter(redisClient, "login", cfg.LoginRateLimit, cfg.LoginRateWindow, log)
		dedupe = worker.NewRedisDeduper(redisClient)
		redisPinger = redisClient
	} else {
		limiter := ratelimit.NewLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
		defer limiter.Stop()
		throttle = limiter

		claims := cache.New()
		go claims.Janitor(ctx, cacheJanitorInterval)
		dedupe = worker.NewCacheDeduper(claims)
	}

	// 5. Security components
	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, "property-management", cfg.SessionTTL)
	if err != nil {
		log.Error("failed to create token manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	auditLogger, closeAudit, err := app.OpenAudit(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open audit store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeAudit()
	guard := security.NewGuard(log).WithAudit(auditLogger)

	// 6. Services
	notifications := service.NewNotificationService(repos.Notifications, service.NewHub(), guard, log)
	authService := service.NewAuthService(repos.Users, tokenManager, throttle, guard, log)
	propertyCache := cache.New()
	go propertyCache.Janitor(ctx, cacheJanitorInterval)
	propertyService := service.NewPropertyService(repos.Properties, guard, notifications, auditLogger, propertyCache, cfg.PropertyCacheTTL, log)

	// 7. Handlers and routes
	router := handler.NewRouter(handler.Handlers{
		Auth:          handler.NewAuthHandler(authService, tokenManager, cfg.IsProduction(), log),
		Properties:    handler.NewPropertyHandler(propertyService, log),
		Admin:         handler.NewAdminHandler(propertyService, authService, log),
		Units:         handler.NewUnitHandler(service.NewUnitService(repos.Units, repos.Properties, guard, auditLogger, log), log),
		Leases:        handler.NewLeaseHandler(service.NewLeaseService(repos.Leases, repos.Units, guard, notifications, auditLogger, log), log),
		Payments:      handler.NewPaymentHandler(service.NewPaymentService(repos.Payments, repos.Leases, guard, notifications, auditLogger, log), log),
		Maintenance:   handler.NewMaintenanceHandler(service.NewMaintenanceService(repos.Maintenance, repos.Properties, guard, notifications, auditLogger, log), log),
		Bookings:      handler.NewBookingHandler(service.NewBookingService(repos.Bookings, repos.Units, guard, notifications, auditLogger, log), log),
		Notifications: handler.NewNotificationHandler(notifications, cfg.CORSAllowedOrigins, log),
		Health:        handler.NewHealthHandler(handler.PingFunc(repos.Ping), redisPinger, log),
	}, tokenManager, cfg.CORSAllowedOrigins, log)

	// 8. Start reminder worker in background
	reminders := worker.NewReminderWorker(repos.Payments, repos.Leases, notifications, dedupe, log, cfg.ReminderInterval)
	go reminders.Start(ctx)

	// 9. Start HTTP server. WriteTimeout is left unset so websocket streams stay open.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Int("login_rate_limit", cfg.LoginRateLimit),
		slog.Duration("login_rate_window", cfg.LoginRateWindow),
		slog.Bool("redis", redisClient != nil),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // stop reminder worker
	if err := store.Close(shutdownCtx); err != nil {
		log.Error("failed to close store", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("failed to flush traces", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
