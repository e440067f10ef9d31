package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/backend"
	"event-ticketing-storefront/internal/config"
	"event-ticketing-storefront/internal/database"
	"event-ticketing-storefront/internal/logger"
	"event-ticketing-storefront/internal/repositories"
	"event-ticketing-storefront/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// The CLI only reports warnings unless LOG_LEVEL says otherwise
	level := cfg.Log.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logg, err := logger.New(cfg.Server.Env, level)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer func() { _ = logg.Sync() }()

	store, err := auth.NewFileStore(cfg.Session.File)
	if err != nil {
		log.Fatal("Failed to open session:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		client:            backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, logg),
		store:             store,
		opener:            browserOpener(os.Stdout),
		out:               os.Stdout,
		logger:            logg,
		confirmationDelay: cfg.Payment.ConfirmationDelay,
		defaultProvider:   cfg.Payment.DefaultProvider,
	}

	// Share checkout flows with the storefront when a database is configured
	if cfg.Database.Enabled() {
		db, err := database.NewConnection(ctx, cfg.Database, logg)
		if err != nil {
			logg.Warn("Checkout flow tracking disabled", zap.Error(err))
		} else {
			defer db.Close()
			a.flows = services.NewFlowService(repositories.NewPostgresFlowStore(db.DB), cfg.Payment.PendingTTL, logg)
		}
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorText(err))
		os.Exit(1)
	}
}
