// Package postgres stores actor sheets in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/rogue-trader/internal/config"
)

// applicationName tags the tools' sessions in pg_stat_activity.
const applicationName = "rogue-trader"

// Pool is a pgx connection pool holding the actor tables.
type Pool struct {
	db *pgxpool.Pool
}

// Connect opens a pool for cfg and verifies the server answers.
//
// Precondition: cfg must pass config validation.
// Postcondition: Returns a reachable Pool or a non-nil error; no connections
// are left open on error.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	target := fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)

	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing config for %s: %w", target, err)
	}
	pcfg.MaxConns = cfg.MaxConns
	pcfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pcfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	db, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening pool for %s: %w", target, err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: %s unreachable: %w", target, err)
	}
	return &Pool{db: db}, nil
}

// EnsureSchema runs every embedded up migration. The scripts are idempotent,
// so this is safe on a migrated database; cmd/migrate remains the tool for
// versioned upgrades.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	scripts, err := UpScripts()
	if err != nil {
		return err
	}
	for i, script := range scripts {
		if _, err := p.db.Exec(ctx, script); err != nil {
			return fmt.Errorf("postgres: applying migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Actors returns the actor repository backed by this pool.
func (p *Pool) Actors() *ActorRepository {
	return NewActorRepository(p.db)
}

// Close releases every connection.
//
// Postcondition: The pool is no longer usable.
func (p *Pool) Close() {
	p.db.Close()
}
