package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		Bad.Fprintf(os.Stderr, "forcetree: %v\n", err)
		stop()
		os.Exit(1)
	}
}
