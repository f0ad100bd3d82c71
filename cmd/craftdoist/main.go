// Package main is the entry point for the craftdoist CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"craftdoist/internal/backend/googletasks"
	"craftdoist/internal/cli"
	"craftdoist/internal/commands"
	"craftdoist/internal/config"
	"craftdoist/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)
	os.Exit(dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// newService builds the client of the configured backend from stored
// credentials.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if cfg.Settings.Backend == config.BackendGoogle {
		return googletasks.New(ctx, cfg)
	}
	token, err := cfg.TodoistToken()
	if err != nil {
		return nil, err
	}
	return commands.ConnectTodoist(ctx, cfg, token), nil
}
