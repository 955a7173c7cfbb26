package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"kitflip/internal/application"
	"kitflip/pkg/contextx"
	"kitflip/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(logx.NewHandler(os.Stderr, slog.LevelInfo))
	slog.SetDefault(log)

	if err := application.Run(contextx.WithLogger(ctx, log)); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}
