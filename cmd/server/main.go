package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/stwalsh4118/dayreel/internal/config"
	"github.com/stwalsh4118/dayreel/internal/logger"
	"github.com/stwalsh4118/dayreel/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := InitStorage(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to initialize storage")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	srv := server.New(cfg, backend)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Log.Error().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
