package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ghuser/itemchain/migrations/item"
	"github.com/ghuser/itemchain/pkg/config"
	"github.com/ghuser/itemchain/pkg/migrator"
)

// Usage: migrate [up|down|status|reset]. Defaults to up.
func main() {
	command := migrator.CommandUp
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	// config.Load reads flags from os.Args; the command is positional.
	os.Args = os.Args[:1]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := migrator.Run(context.Background(), cfg.DatabaseURL, item.FS, command); err != nil {
		slog.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	slog.Info("migrations complete", "command", command)
}
