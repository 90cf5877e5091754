package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/app"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/config"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/logging"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/scheduler"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}

	ctx := context.Background()

	application, err := app.New(ctx, cfg, app.Options{Migrate: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start application")
	}

	log.Info().
		Str("path", cfg.Database.Path).
		Str("version", version.Version).
		Msg("connected to database")

	// Daily snapshots
	sched, err := scheduler.New(cfg.Snapshot.Cron, application.Services.Snapshot)
	if err != nil {
		application.Close()
		log.Fatal().Err(err).Msg("failed to create snapshot scheduler")
	}
	sched.Start()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(application.Services, cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("snapshot run did not finish before shutdown")
	}
	// Pending notifications drain before the database closes.
	if err := application.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close application")
	}

	log.Info().Msg("server exited")
}
