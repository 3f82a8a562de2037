// Package main is the entry point for the KPI projections dashboard.
//
// The application is a thin presentation layer over a precomputed artifact:
// it loads the projections snapshot exactly once, then serves filtered views,
// chart series, and CSV exports of it over a local HTTP interface. There is
// no modeling and no pipeline here - when the artifact is missing or corrupt
// the only correct behavior is to report it and refuse to start.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/irodotos/kpiboard/internal/config"
	"github.com/irodotos/kpiboard/internal/server"
	"github.com/irodotos/kpiboard/internal/snapshot"
	"github.com/irodotos/kpiboard/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting KPI dashboard")

	// Load the snapshot once for the session lifetime. Both failure modes
	// are terminal: no retry, no partial load.
	snap, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		switch {
		case errors.Is(err, snapshot.ErrMissingArtifact):
			log.Fatal().Err(err).
				Str("path", cfg.SnapshotPath).
				Msg("Projections artifact not found - run the KPI modeling pipeline and point SNAPSHOT_PATH at its output")
		case errors.Is(err, snapshot.ErrCorruptArtifact):
			log.Fatal().Err(err).
				Str("path", cfg.SnapshotPath).
				Msg("Projections artifact could not be read - regenerate it with the KPI modeling pipeline")
		default:
			log.Fatal().Err(err).Msg("Failed to load projections artifact")
		}
	}

	log.Info().
		Str("session_id", snap.SessionID.String()).
		Time("data_timestamp", snap.DataTimestamp).
		Int("annual_rows", len(snap.Annual)).
		Int("baseline_rows", len(snap.Baseline)).
		Int("holiday_rows", len(snap.Holiday)).
		Msg("Snapshot loaded")

	srv := server.New(server.Config{
		Log:      log,
		Snapshot: snap,
		Config:   cfg,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
	})

	// Start server in goroutine so the main thread can wait on signals
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with a bounded window for in-flight requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
