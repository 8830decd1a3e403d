package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/optiondata/chaincache/internal/config"
	"github.com/optiondata/chaincache/internal/database"
	"github.com/optiondata/chaincache/internal/dhan"
	"github.com/optiondata/chaincache/internal/marketclock"
	"github.com/optiondata/chaincache/internal/refresh"
	"github.com/optiondata/chaincache/internal/store"
	"github.com/optiondata/chaincache/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/chaincached.yaml", "path to config file")
	flag.Parse()

	// A .env file is optional; real deployments set the environment directly.
	godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting chaincached",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"underlying_scrip", cfg.Dhan.UnderlyingScrip,
		"segment", cfg.Dhan.Segment,
		"expiry", cfg.Dhan.Expiry,
		"store_driver", cfg.Store.Driver,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Build the snapshot store
	snapStore, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build snapshot store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create API client
	client := dhan.NewClient(
		cfg.Dhan.BaseURL,
		cfg.Dhan.ClientID,
		cfg.Dhan.AccessToken,
		dhan.WithLogger(logger),
		dhan.WithTimeout(cfg.Dhan.Timeout),
	)

	// Sanity-check the configured expiry against the provider's list.
	// Warn-only: a transient API failure must not block startup.
	checkExpiry(ctx, client, cfg, logger)

	// Market clock
	clock, err := marketclock.New(cfg.Market.Timezone, cfg.Market.Open, cfg.Market.Close, cfg.Market.Bypass)
	if err != nil {
		logger.Error("failed to build market clock", "error", err)
		os.Exit(1)
	}
	if cfg.Market.Bypass {
		logger.Warn("market-hours check is bypassed")
	}

	// Refresher and scheduler
	refresher := refresh.New(refresh.Config{
		Request: dhan.OptionChainRequest{
			UnderlyingScrip: cfg.Dhan.UnderlyingScrip,
			UnderlyingSeg:   cfg.Dhan.Segment,
			Expiry:          cfg.Dhan.Expiry,
		},
		MaxRetries: cfg.Refresh.MaxRetries,
		BaseDelay:  cfg.Refresh.BaseDelay,
	}, clock, client, snapStore, logger)

	scheduler := refresh.NewScheduler(cfg.Refresh.Interval, refresher, logger)

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(snapStore, scheduler),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := scheduler.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	logger.Info("chaincached running",
		"instance_id", cfg.Instance.ID,
		"interval", cfg.Refresh.Interval,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	scheduler.Stop(shutdownCtx)
	healthServer.Shutdown(shutdownCtx)

	logger.Info("chaincached stopped")
}

// buildStore assembles the configured store, optionally wrapped in the
// Redis read cache. The returned cleanup closes whatever was opened.
func buildStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	var inner store.Store
	cleanup := func() {}

	switch cfg.Store.Driver {
	case "postgres":
		logger.Info("connecting to database",
			"host", cfg.Store.Postgres.Host,
			"port", cfg.Store.Postgres.Port,
			"database", cfg.Store.Postgres.Name,
		)
		pool, err := database.Connect(ctx, cfg.Store.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		inner = store.NewPostgresStore(pool, logger)
		cleanup = pool.Close
	case "memory":
		logger.Warn("using in-memory store, snapshots will not survive restarts")
		inner = store.NewMemoryStore()
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Store.RedisURL == "" {
		return inner, cleanup, nil
	}

	cached, err := store.NewCachedStore(inner, cfg.Store.RedisURL, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create redis cache: %w", err)
	}
	logger.Info("redis snapshot cache enabled")
	innerCleanup := cleanup
	return cached, func() {
		cached.Close()
		innerCleanup()
	}, nil
}

// checkExpiry warns when the configured expiry is not in the provider's
// expiry list for the underlying.
func checkExpiry(ctx context.Context, client *dhan.Client, cfg *config.Config, logger *slog.Logger) {
	checkCtx, checkCancel := context.WithTimeout(ctx, 10*time.Second)
	defer checkCancel()

	expiries, err := client.ExpiryList(checkCtx, cfg.Dhan.UnderlyingScrip, cfg.Dhan.Segment)
	if err != nil {
		logger.Warn("could not verify configured expiry", "error", err)
		return
	}
	if !slices.Contains(expiries, cfg.Dhan.Expiry) {
		logger.Warn("configured expiry not in provider expiry list",
			"expiry", cfg.Dhan.Expiry,
			"available", expiries,
		)
	}
}
