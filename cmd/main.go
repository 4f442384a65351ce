package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/spotify-mcp/internal/shared"
)

func main() {
	logger := shared.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("shutting down")
			return
		}
		stop()
		logger.Fatalf("application error: %v", err)
	}
}
