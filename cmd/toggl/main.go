package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"indicator-toggl/internal/cli"
)

func main() {
	// Interrupts cancel the running command; watch exits cleanly on them
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.RootOptions{
		Out: os.Stdout,
		Err: os.Stderr,
	})
	if err := root.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
