package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/onetouchfc/one-touch-loader/internal/app"
	"github.com/onetouchfc/one-touch-loader/internal/config"
	"github.com/onetouchfc/one-touch-loader/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.Run(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "loader run failed",
			"error", err,
			"leagues", result.Leagues,
			"seasons", result.Seasons,
			"teams", result.Teams,
			"fixtures", result.Fixtures,
		)
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}
