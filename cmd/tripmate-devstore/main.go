package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tripmate/tripmate-client/config"
	"github.com/tripmate/tripmate-client/internal/adapters/devauth"
	"github.com/tripmate/tripmate-client/internal/adapters/memstore"
	"github.com/tripmate/tripmate-client/internal/bootstrap"
	"github.com/tripmate/tripmate-client/internal/devseed"
	"github.com/tripmate/tripmate-client/internal/devstore"
	"github.com/tripmate/tripmate-client/internal/domain/auth"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	logger := bootstrap.InitLogger(os.Stderr, cfg.Observability)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, logger, &cfg); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) error {
	dev := cfg.Auth.DevAuth
	verifier, err := devauth.NewVerifier(dev.Secret, dev.Issuer)
	if err != nil {
		return fmt.Errorf("create credential verifier: %w", err)
	}

	admins := make([]auth.Principal, 0, len(cfg.DevStore.Admins))
	for _, a := range cfg.DevStore.Admins {
		admins = append(admins, auth.Principal(a))
	}
	store := memstore.New(memstore.Options{Admins: admins, Logger: logger})
	if cfg.DevStore.Seed {
		if err := devseed.Run(ctx, store, logger); err != nil {
			return fmt.Errorf("seed dev store: %w", err)
		}
	}

	logger.InfoContext(ctx, "starting tripmate dev store",
		"addr", cfg.DevStore.Addr,
		"admins", cfg.DevStore.Admins,
		"seeded", cfg.DevStore.Seed,
		"issuer", dev.Issuer)

	return devstore.ListenAndServe(ctx, devstore.Options{
		Addr:     cfg.DevStore.Addr,
		Store:    store,
		Verifier: verifier,
		Logger:   logger,
	})
}
