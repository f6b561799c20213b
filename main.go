package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Set up context with signal handling so an in-flight fetch is released
	// when the user interrupts the download
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
