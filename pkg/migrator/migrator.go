package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Commands accepted by Run.
const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"
	CommandReset  = "reset"
)

// Run executes a goose command (up, down, status, reset) against dbUrl.
func Run(ctx context.Context, dbUrl string, files fs.FS, command string) error {
	switch command {
	case CommandUp, CommandDown, CommandStatus, CommandReset:
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	db, err := sql.Open("pgx", dbUrl)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	return Apply(ctx, db, files, command)
}

// Apply executes a goose command against an already open database.
func Apply(ctx context.Context, db *sql.DB, files fs.FS, command string) error {
	goose.SetBaseFS(files)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations %s: %w", command, err)
	}
	return nil
}
