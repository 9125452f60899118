// Package main applies the actor-storage schema migrations.
//
// Usage:
//
//	migrate [-config configs/dev.yaml] [-direction up|down] [-steps N]
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue-trader/internal/config"
	"github.com/cory-johannsen/rogue-trader/internal/observability"
	"github.com/cory-johannsen/rogue-trader/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := apply(cfg.Database, *direction, *steps, logger); err != nil {
		logger.Error("migration failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// apply moves the schema in direction by steps, or all the way when steps is 0.
func apply(db config.DatabaseConfig, direction string, steps int, logger *zap.Logger) error {
	start := time.Now()

	var move func(*migrate.Migrate) error
	switch {
	case direction == "up" && steps > 0:
		move = func(m *migrate.Migrate) error { return m.Steps(steps) }
	case direction == "up":
		move = (*migrate.Migrate).Up
	case direction == "down" && steps > 0:
		move = func(m *migrate.Migrate) error { return m.Steps(-steps) }
	case direction == "down":
		move = (*migrate.Migrate).Down
	default:
		return fmt.Errorf("invalid direction %q: must be 'up' or 'down'", direction)
	}

	src, err := iofs.New(postgres.Migrations, postgres.MigrationsDir)
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, db.DSN())
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	err = move(m)
	changed := !errors.Is(err, migrate.ErrNoChange)
	if err != nil && changed {
		return err
	}

	version, dirty, _ := m.Version()
	logger.Info("schema migrated",
		zap.String("direction", direction),
		zap.Bool("changed", changed),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
