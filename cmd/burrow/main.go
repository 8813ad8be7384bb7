package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/burrowlabs/burrow-cli/internal/adapters/driving/cli"
)

func main() {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	// Interrupts cancel the command context so running work drains
	// instead of dying mid-batch. A second interrupt kills outright.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
