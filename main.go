package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/autoply/autoply/cmd"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cmd.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
