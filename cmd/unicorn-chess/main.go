package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/unicorn-chess/internal/chessbuilder"
	appcfg "github.com/park285/unicorn-chess/internal/config"
	"github.com/park285/unicorn-chess/internal/obslog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	deps, err := chessbuilder.New(cfg, logger)
	if err != nil {
		logger.Fatal("chess_init_failed", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           deps.Server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listen", zap.String("addr", cfg.HTTPAddr), zap.String("store", deps.StoreName))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for termination signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutdown_signal", zap.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok {
			logger.Error("http_serve_failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http_shutdown_error", zap.Error(err))
	}
}
