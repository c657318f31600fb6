package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/poultrygear/poultrygear-backend/pkg/config"
	"github.com/poultrygear/poultrygear-backend/pkg/db"
	"github.com/poultrygear/poultrygear-backend/pkg/logger"
	"github.com/poultrygear/poultrygear-backend/pkg/migrate"
)

const usage = `usage: migrate <command> [args]

commands:
  up                 apply all pending migrations
  up-by-one          apply the next pending migration
  up-to VERSION      apply migrations up to VERSION
  down               roll back the most recent migration
  down-to VERSION    roll back migrations down to VERSION
  redo               roll back and re-apply the latest migration
  status             print the migration status
  version            print the current migration version
  create NAME        scaffold a new SQL migration
`

var dbCommands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"up-to":     true,
	"down":      true,
	"down-to":   true,
	"redo":      true,
	"status":    true,
	"version":   true,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	if command == "create" {
		if len(args) != 1 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		if err := migrate.Create(migrate.DefaultDir, args[0]); err != nil {
			logg.Error(ctx, "failed to create migration", err)
			os.Exit(1)
		}
		return
	}

	if !dbCommands[command] {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	sqlDB, err := client.DB().DB()
	if err != nil {
		logg.Error(ctx, "failed to extract sql.DB", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{"command": command, "dir": migrate.DefaultDir})
	if err := migrate.Run(ctx, sqlDB, migrate.DefaultDir, command, args...); err != nil {
		logg.Error(ctx, "migration command failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration command completed")
}
