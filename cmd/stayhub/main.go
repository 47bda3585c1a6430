package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayhub/internal/infra/config"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("", obs.LoggerOptions{}).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, obs.LoggerOptions{Level: cfg.LogLevel})

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if cfg.PropertyFixtures != "" {
		if err := app.loadPropertyFixtures(ctx, cfg.PropertyFixtures, logger); err != nil {
			logger.Warn("property fixtures load failed", "error", err, "path", cfg.PropertyFixtures)
		}
	}

	app.startBackground(ctx, cfg)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, app.health, app.handlers, ginserver.NewRateLimiter(cfg.RateLimitPerMin))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreMode)
	serveErr := server.ListenAndServe()
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Error("http server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.close(shutdownCtx, logger)
	logger.Info("HTTP server stopped")
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		os.Exit(1)
	}
}
