package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homebase/internal/cli"
	"homebase/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Interrupts cancel the command context, which stops watch, todo and serve cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	root := cli.NewRootCommand(cfg, newRuntime)
	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
