package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/logging"
)

func main() {
	// stdout carries command output; logs go to stderr.
	logging.Setup(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
