package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/planforge/rackplan/internal/config"
	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/planforge/rackplan/internal/memstore"
	"github.com/planforge/rackplan/internal/repository"
	"github.com/planforge/rackplan/internal/resilient"
	"github.com/planforge/rackplan/internal/sqlstore"
	"github.com/planforge/rackplan/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	// The durable backend is optional at startup: if it cannot be
	// opened the server still comes up, serving from the mirror, and
	// the probe reconnects when the database returns.
	var (
		primaryProjects    project.Repository
		primaryActivities  activity.Repository
		primaryAllocations allocation.Repository
		pinger             repository.Pinger
	)
	db, err := openDurable(cfg.DB)
	if err != nil {
		logger.Error("durable store unavailable at startup", "error", err)
	} else {
		defer db.Close()
		primaryProjects = sqlstore.NewProjectRepository(db)
		primaryActivities = sqlstore.NewActivityRepository(db)
		primaryAllocations = sqlstore.NewAllocationRepository(db)
		pinger = db
	}

	mirror := memstore.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := resilient.NewBackend(pinger, resilient.Options{
		PrimaryTimeout: time.Duration(cfg.DB.PrimaryTimeout),
		ProbeInterval:  time.Duration(cfg.DB.ProbeInterval),
	}, logger)
	backend.StartProbe(ctx)

	projectRepo := resilient.NewProjectRepository(backend, primaryProjects, mirror.Projects())
	activityRepo := resilient.NewActivityRepository(backend, primaryActivities, mirror.Activities())
	allocationRepo := resilient.NewAllocationRepository(backend, primaryAllocations, mirror.Allocations())

	projectSvc := project.NewService(projectRepo, logger)
	activitySvc := activity.NewService(activityRepo, projectRepo, logger)
	allocationSvc := allocation.NewService(allocationRepo, projectRepo, logger)

	router := transport.NewServer(projectSvc, activitySvc, allocationSvc, func() string {
		return backend.Mode().String()
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "store", backend.Mode().String())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// openDurable opens the configured database and applies the schema. Any
// failure is reported to the caller so the server can start degraded.
func openDurable(cfg config.DBConfig) (*sqlstore.DB, error) {
	if cfg.Driver == sqlstore.DriverSQLite {
		if err := ensureDBDir(cfg.DSN); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
	}

	db, err := sqlstore.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
