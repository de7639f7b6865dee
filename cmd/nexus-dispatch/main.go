// Package main is the entrypoint for nexus-dispatch.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/miktos/nexus-dispatch/internal/config"
	"github.com/miktos/nexus-dispatch/internal/server"
	"github.com/miktos/nexus-dispatch/pkg/db"
)

const usage = `Usage: nexus-dispatch [command]

Commands:
  (default)   Start the dispatcher (NATS, HTTP, skill library).
  migrate     Run audit log migrations only (does not start the server).
  clear       Truncate the dispatch audit log; schema is preserved.

Environment: COMMS_URL, DATABASE_URL (audit log, optional), MIGRATION_PATH (migrate), DISPATCH_RULES_FILE. See README for full list.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "migrate":
		if err := runMigrate(); err != nil {
			log.Fatalf("nexus-dispatch migrate: %v", err)
		}
		return
	case "clear":
		if err := runClear(); err != nil {
			log.Fatalf("nexus-dispatch clear: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "":
		// fall through to server
	default:
		// unknown subcommand
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("nexus-dispatch: fatal error: %v", err)
	}
}

func runMigrate() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func runClear() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.ClearDispatchLog(ctx, pool); err != nil {
		return fmt.Errorf("clear dispatch log: %w", err)
	}
	return nil
}
