package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"led-inspect/config"
	"led-inspect/internal/api/cli"
	"led-inspect/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.RootCommand(&cli.Runtime{Config: cfg, Logger: logger})
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
