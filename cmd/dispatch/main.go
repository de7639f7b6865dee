// Package main is the entrypoint for the dispatcher (binary name "dispatch" in Docker).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/miktos/nexus-dispatch/internal/config"
	"github.com/miktos/nexus-dispatch/internal/server"
	"github.com/miktos/nexus-dispatch/pkg/db"
	"github.com/miktos/nexus-dispatch/pkg/dispatch"
	"github.com/miktos/nexus-dispatch/pkg/engine"
	"github.com/miktos/nexus-dispatch/pkg/events"
	"github.com/miktos/nexus-dispatch/pkg/matcher"
	"github.com/miktos/nexus-dispatch/pkg/rules"
	"github.com/miktos/nexus-dispatch/pkg/skill"
	"github.com/miktos/nexus-dispatch/pkg/skills"
)

const usage = `Usage: dispatch [command]
       dispatch serve               Start the dispatcher (NATS, HTTP, skill library).
       dispatch run <command...>    Dispatch one command locally against the simulated engine and print the envelope.
       dispatch rules [file]        Validate a rule file (default: resolved like the server does).
       dispatch migrate up          Run audit log migrations.
       dispatch migrate status      Show audit log migration status.
       dispatch ensure-db [name]    Create database if missing (default name: nexus_dispatch_test). Uses DATABASE_URL host/user.
       dispatch clear               Truncate the dispatch audit log; schema is preserved.

Commands:
  serve            (default) Start the dispatcher.
  run <command...> One-shot local dispatch; no NATS or database needed.
  rules [file]     Parse a rule file, check its format version, and list its rules.
  migrate up       Run audit log migrations only.
  migrate status   Show current migration status.
  ensure-db [name] Create database (e.g. nexus_dispatch_test) on same host as DATABASE_URL; then run tests with that URL.
  clear            Truncate dispatch audit data; schema preserved.

Environment: COMMS_URL, DATABASE_URL (audit log), MIGRATION_PATH, HTTP_PORT (default 8080), DISPATCH_RULES_FILE. See README.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "run":
		if len(args) < 2 {
			log.Fatalf("dispatch run: require a command string")
		}
		if err := runLocal(strings.Join(args[1:], " ")); err != nil {
			log.Fatalf("dispatch run: %v", err)
		}
		return
	case "rules":
		rulesFile := ""
		if len(args) > 1 {
			rulesFile = args[1]
		}
		if err := runRulesCheck(rulesFile); err != nil {
			log.Fatalf("dispatch rules: %v", err)
		}
		return
	case "migrate":
		if len(args) < 2 {
			log.Fatalf("dispatch migrate: require subcommand (up, status)")
		}
		sub := args[1]
		switch sub {
		case "up":
			if err := runMigrateUp(); err != nil {
				log.Fatalf("dispatch migrate up: %v", err)
			}
		case "status":
			if err := runMigrateStatus(); err != nil {
				log.Fatalf("dispatch migrate status: %v", err)
			}
		default:
			log.Fatalf("dispatch migrate: unknown subcommand %q (use up, status)", sub)
		}
		return
	case "ensure-db":
		dbName := "nexus_dispatch_test"
		if len(args) > 1 && args[1] != "" {
			dbName = args[1]
		}
		if err := runEnsureDB(dbName); err != nil {
			log.Fatalf("dispatch ensure-db: %v", err)
		}
		return
	case "clear":
		if err := runClear(); err != nil {
			log.Fatalf("dispatch clear: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
		break
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("dispatch: %v", err)
	}
}

// runLocal dispatches one free-text command against the simulated engine and
// prints the response envelope as JSON. No NATS, no database.
func runLocal(command string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rulesCfg, err := rules.LoadRulesConfig(cfg.RulesFile)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	registry := skill.NewRegistry()
	if err := skills.RegisterAll(registry, engine.NewSim()); err != nil {
		return fmt.Errorf("register skill library: %w", err)
	}

	disp := dispatch.NewDispatcher(dispatch.NewDispatcherParams{
		Registry:  registry,
		Matcher:   matcher.NewMatcher(rulesCfg.ToMatcherRules(), matcher.Config{MinConfidence: cfg.MinConfidence}),
		Publisher: &events.NoOpPublisher{},
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	env, match := disp.DispatchWithMatch(ctx, command)

	out, err := json.MarshalIndent(dispatch.CommandResponse{
		Skill:      match.Skill,
		Confidence: match.Confidence,
		Envelope:   *env,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// runRulesCheck parses and validates a rule file the way the server does at
// startup, then lists its rules.
func runRulesCheck(rulesFile string) error {
	rulesCfg, err := rules.LoadRulesConfig(rulesFile)
	if err != nil {
		return err
	}

	registry := skill.NewRegistry()
	if err := skills.RegisterAll(registry, engine.NewSim()); err != nil {
		return fmt.Errorf("register skill library: %w", err)
	}

	fmt.Printf("Rule set %q (format %s): %d rules.\n", rulesCfg.Name, rulesCfg.Version, len(rulesCfg.Rules))
	for _, r := range rulesCfg.Rules {
		target := "ok"
		if _, err := registry.Resolve(r.Skill); err != nil {
			target = "UNKNOWN SKILL"
		}
		fmt.Printf("  %-28s -> %-28s confidence=%.2f priority=%d phrases=%d keywords=%d [%s]\n",
			r.Name, r.Skill, r.Confidence, r.Priority, len(r.Phrases), len(r.Keywords), target)
	}
	return nil
}

func runMigrateUp() error {
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

func runMigrateStatus() error {
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

	applied, err := db.MigrationStatus(ctx, pool)
	if err != nil {
		return err
	}
	if applied {
		fmt.Println("Migrations applied: dispatches table exists.")
	} else {
		fmt.Println("Migrations not applied: dispatches table missing. Run `dispatch migrate up`.")
	}
	return nil
}

func runEnsureDB(dbName string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	// Replace path with target database name; query (e.g. sslmode) is kept on u.RawQuery.
	u.Path = "/" + dbName
	targetURL := u.String()
	ctx := context.Background()
	if err := db.EnsureDatabase(ctx, targetURL); err != nil {
		return err
	}
	fmt.Printf("Database %q is ready.\n", dbName)
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
