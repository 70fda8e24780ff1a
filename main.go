package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"agesync/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	exitCode := cli.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode)
}
