// Server entry point for the project finance model API.
//
// Startup sequence:
//  1. Load configuration from environment (.env honored)
//  2. Initialize structured logging
//  3. Open the runs database and apply its schema
//  4. Wire the evaluation runner, worker pool and runs service
//  5. Start the retention scheduler and the HTTP server
//  6. Wait for SIGINT/SIGTERM and shut down gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dutchbay/windward/internal/config"
	"github.com/dutchbay/windward/internal/database"
	"github.com/dutchbay/windward/internal/modules/runs"
	runshandlers "github.com/dutchbay/windward/internal/modules/runs/handlers"
	"github.com/dutchbay/windward/internal/scenario"
	"github.com/dutchbay/windward/internal/scheduler"
	"github.com/dutchbay/windward/internal/server"
	"github.com/dutchbay/windward/pkg/logger"
)

// Daily at 03:00.
const retentionSchedule = "0 0 3 * * *"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Windward server")

	runsDB, err := database.New(database.Config{
		Path: filepath.Join(cfg.DataDir, "runs.db"),
		Name: "runs",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open runs database")
	}
	defer runsDB.Close()

	if err := runsDB.Migrate(runs.Schema); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate runs database")
	}

	repo := runs.NewRepository(runsDB.Conn(), log)
	runner := scenario.NewRunner(log)
	pool := scenario.NewPool(runner, cfg.Workers)
	service := runs.NewService(runner, pool, repo, log)

	sched := scheduler.New(log)
	retention := runs.NewRetentionJob(repo, cfg.RunRetentionDays, log)
	if err := sched.AddJob(retentionSchedule, retention); err != nil {
		log.Fatal().Err(err).Msg("Failed to register retention job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:         log,
		Config:      cfg,
		RunsHandler: runshandlers.NewHandler(service, repo, log),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
