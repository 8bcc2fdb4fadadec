package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"NewsDesk/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.New("newsdesk").Printf("error: %v", err)
		stop()
		os.Exit(1)
	}
}
