package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/triviad/triviad/internal/config"
	"github.com/triviad/triviad/internal/factory"
	"github.com/triviad/triviad/internal/ops"
	"github.com/triviad/triviad/internal/server"
	"github.com/triviad/triviad/internal/services/scoreboard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Wire the application; question loading failures are fatal here,
	// before the server starts accepting
	app, err := factory.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	// Quiz protocol server
	serverCfg := server.DefaultConfig()
	serverCfg.ListenAddr = cfg.ListenAddr
	serverCfg.MaxPayload = cfg.MaxPayload
	srv := server.New(serverCfg, app.Quiz, app.Scoreboard, app.Metrics, logger)

	if err := srv.Listen(); err != nil {
		logger.Error("listen failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Periodic operator scoreboard on stdout
	publisher := scoreboard.NewPublisher(app.Scoreboard, os.Stdout, cfg.ScoreboardInterval, logger)
	go publisher.Run(ctx)

	// Operator HTTP server (health, scoreboard, metrics)
	var opsServer *ops.Server
	if cfg.OpsAddr != "" {
		opsCfg := ops.DefaultServerConfig()
		opsCfg.Addr = cfg.OpsAddr
		router := ops.NewRouter(ops.RouterConfig{
			Logger:     logger,
			Scoreboard: app.Scoreboard,
			Metrics:    app.Metrics,
		})
		opsServer = ops.NewServer(router, opsCfg, logger)
		go func() {
			if err := opsServer.Start(); err != nil {
				logger.Error("operator server error", slog.String("error", err.Error()))
			}
		}()
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx)
	}()

	logger.Info("server started", slog.String("addr", srv.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if opsServer != nil {
			if err := opsServer.Shutdown(context.Background()); err != nil {
				logger.Error("shutdown error", slog.String("error", err.Error()))
			}
		}
	}

	logger.Info("server stopped")
}

func parseLevel(level string) slog.Level {
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
