package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grvbrk/tubepulse/internal/config"
	"github.com/grvbrk/tubepulse/internal/log"
	"github.com/grvbrk/tubepulse/internal/routes"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		l := log.Base()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Configure(log.Config{Level: cfg.Log.Level})
	logger := log.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := routes.Run(ctx, cfg); err != nil {
		logger.Fatal().Err(err).Msg("Error starting server")
	}
}
