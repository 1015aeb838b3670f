package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal/database"
	"github.com/scythe504/typing-hub-backend/internal/game"
	"github.com/scythe504/typing-hub-backend/internal/logger"
	"github.com/scythe504/typing-hub-backend/internal/server"
	"github.com/scythe504/typing-hub-backend/internal/utils"
)

func gracefulShutdown(ctx context.Context, apiServer *http.Server, done chan struct{}) {
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
	close(done)
}

// run serves until ctx is cancelled or the listener fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg server.Config) error {
	vocab, err := utils.LoadVocabulary()
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}

	hubCfg := game.HubConfig{
		Generator: utils.NewBalloonGenerator(vocab, time.Now().UnixNano()),
	}

	var results server.Results
	if cfg.Database.Enabled() {
		connString := cfg.Database.ConnString()
		if err := database.Migrate(connString); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		store, err := database.New(ctx, connString)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer store.Close()
		hubCfg.Recorder = store
		results = store
	} else {
		log.Info().Msg("DB_HOST not set, match archive disabled")
	}

	hub := game.NewHub(hubCfg)
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(hubDone)
	}()
	defer func() {
		stopHub()
		<-hubDone
	}()

	apiServer := server.NewServer(cfg, hub, results)

	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()
	done := make(chan struct{})
	go gracefulShutdown(serveCtx, apiServer, done)

	log.Info().Int("port", cfg.Port).Msg("typing hub server listening")
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
	return nil
}

func main() {
	cfg := server.LoadConfig()
	logger.Setup(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}
