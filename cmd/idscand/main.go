package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	boltadapter "github.com/clssupply/idscanpro/internal/adapter/driven/bolt"
	sqliteadapter "github.com/clssupply/idscanpro/internal/adapter/driven/sqlite"
	httphandler "github.com/clssupply/idscanpro/internal/adapter/driving/http"
	"github.com/clssupply/idscanpro/internal/application"
	"github.com/clssupply/idscanpro/internal/config"
	"github.com/clssupply/idscanpro/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"backup_path", cfg.BackupPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Open backup store.
	backupStore, err := boltadapter.Open(cfg.BackupPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := backupStore.Close(); closeErr != nil {
			slog.Error("error closing backup store", "error", closeErr)
		}
	}()
	slog.Info("backup store opened", "path", cfg.BackupPath)

	// 6. Wire adapters and application service.
	kvStore := sqliteadapter.NewKVRepo(db)
	m := metrics.New()
	svc := application.NewScanService(kvStore, backupStore, application.Options{
		MaxStorageBytes: cfg.MaxStorageBytes,
		MaxScans:        cfg.MaxScans,
		Metrics:         m,
	})

	// 7. Create HTTP handler and register routes.
	apiHandler := httphandler.NewHandler(svc, m, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("idscanpro started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
