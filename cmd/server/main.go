package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/autocatalog/autocatalog/api"
	"github.com/autocatalog/autocatalog/internal/api"
	"github.com/autocatalog/autocatalog/internal/brand"
	"github.com/autocatalog/autocatalog/internal/catalog"
	"github.com/autocatalog/autocatalog/internal/config"
	"github.com/autocatalog/autocatalog/internal/database"
	"github.com/autocatalog/autocatalog/internal/seed"
	"github.com/autocatalog/autocatalog/internal/vehiclemodel"
)

// startupTimeout bounds connecting, migrating and seeding before the server listens.
const startupTimeout = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	db, err := bootstrap(cfg)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := catalog.NewService(
		brand.NewPostgresRepository(db.Pool()),
		vehiclemodel.NewPostgresRepository(db.Pool()),
	)

	router := api.NewRouter(api.RouterDeps{
		Service:        svc,
		DBPinger:       db,
		Version:        cfg.Version,
		OpenAPISpec:    specpkg.OpenAPISpec,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "project", cfg.ProjectName, "port", cfg.Port, "version", cfg.Version, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		db.Close()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server stopped gracefully")
}

// bootstrap opens the pool, applies migrations and loads the seed dataset as configured.
func bootstrap(cfg *config.Config) (*database.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.SeedOnStart {
		if err := runSeed(ctx, db, cfg.SeedPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

func runSeed(ctx context.Context, db *database.DB, path string) error {
	var (
		entries []seed.Entry
		err     error
	)
	if path != "" {
		slog.Info("loading seed dataset", "path", path)
		entries, err = seed.LoadFile(path)
	} else {
		entries, err = seed.Default()
	}
	if err != nil {
		return fmt.Errorf("loading seed dataset: %w", err)
	}

	_, err = seed.NewSeeder(db).Run(ctx, entries)
	return err
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
