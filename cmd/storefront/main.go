package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/backend"
	"event-ticketing-storefront/internal/config"
	"event-ticketing-storefront/internal/database"
	"event-ticketing-storefront/internal/handlers"
	"event-ticketing-storefront/internal/logger"
	"event-ticketing-storefront/internal/middleware"
	"event-ticketing-storefront/internal/models"
	"event-ticketing-storefront/internal/repositories"
	"event-ticketing-storefront/internal/server"
	"event-ticketing-storefront/internal/services"
)

const (
	sessionMaxAge     = 86400 * 7
	loginMaxAttempts  = 5
	loginWindow       = 15 * time.Minute
	shutdownGraceTime = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logg, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Fatal("Storefront stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logg *zap.Logger) error {
	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, logg)

	// Catalog cache is optional
	if cfg.Redis.URL != "" {
		rdb, err := backend.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logg.Warn("Catalog cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			client.WithCache(backend.NewCatalogCache(rdb, cfg.Backend.CatalogCacheTTL, logg))
			logg.Info("Catalog cache enabled", zap.Duration("ttl", cfg.Backend.CatalogCacheTTL))
		}
	}

	// Checkout flows live in Postgres when configured, in memory otherwise
	var flowStore repositories.FlowStore = repositories.NewMemoryFlowStore()
	if cfg.Database.Enabled() {
		db, err := database.NewConnection(ctx, cfg.Database, logg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			return err
		}
		flowStore = repositories.NewPostgresFlowStore(db.DB)
	} else {
		logg.Warn("No database configured, checkout flows are kept in memory")
	}

	flows := services.NewFlowService(flowStore, cfg.Payment.PendingTTL, logg)
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go flows.Run(sweepCtx, cfg.Payment.FlowSweepInterval)

	sessionStore, err := auth.NewSessionStore(cfg.Session.Secret, auth.CookieOptions{
		Secure: cfg.IsProduction(),
		MaxAge: sessionMaxAge,
	})
	if err != nil {
		return err
	}

	provider, err := models.ParsePaymentProvider(cfg.Payment.DefaultProvider)
	if err != nil {
		return err
	}
	h := handlers.New(client, flows, handlers.Options{
		DefaultProvider:   provider,
		ConfirmationDelay: cfg.Payment.ConfirmationDelay,
	}, logg)

	loginLimiter := middleware.NewLoginRateLimiter(loginMaxAttempts, loginWindow)

	router := server.NewRouter(server.RouterConfig{
		Handler:        h,
		Sessions:       sessionStore,
		CookieName:     cfg.Session.CookieName,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		LoginLimiter:   loginLimiter,
		Logger:         logg,
	})

	srv := server.New(cfg.Addr(), router, logg)
	srv.OnShutdown(loginLimiter.Stop)
	srv.OnShutdown(cancelSweep)

	logg.Info("Storefront ready",
		zap.String("addr", cfg.Addr()),
		zap.String("backend", cfg.Backend.URL),
		zap.String("default_provider", string(provider)))
	return srv.Run(ctx, shutdownGraceTime)
}
