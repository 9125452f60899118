// Package testutil provides PostgreSQL container helpers for integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/rogue-trader/internal/config"
	"github.com/cory-johannsen/rogue-trader/internal/storage/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	credential    = "rt_test"
)

// Postgres starts a throwaway PostgreSQL container, applies the actor schema
// and returns a connected pool. The container is terminated when the test
// ends. Tests calling it are skipped under -short.
//
// Precondition: Docker must be available.
// Postcondition: Returns a migrated pool, or skips/fails the test.
func Postgres(t *testing.T) *postgres.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     credential,
				"POSTGRES_PASSWORD": credential,
				"POSTGRES_DB":       credential,
			},
			// The server restarts once after initdb; wait for the second ready line.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v", postgresImage, err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	cfg, err := containerConfig(ctx, container)
	if err != nil {
		t.Fatalf("resolving container address: %v", err)
	}
	pool, err := postgres.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.EnsureSchema(ctx); err != nil {
		t.Fatalf("applying schema: %v", err)
	}
	t.Logf("postgres ready at %s:%d [%s]", cfg.Host, cfg.Port, time.Since(start))
	return pool
}

func containerConfig(ctx context.Context, c testcontainers.Container) (config.DatabaseConfig, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return config.DatabaseConfig{}, err
	}
	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		return config.DatabaseConfig{}, err
	}
	return config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            credential,
		Password:        credential,
		Name:            credential,
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}, nil
}
