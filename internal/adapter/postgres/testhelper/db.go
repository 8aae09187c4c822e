// Package testhelper starts a throwaway PostgreSQL for repository tests.
package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/quicktranslate/migrations"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// SetupTestDB starts a shared PostgreSQL container (once for the entire test run),
// applies goose migrations, and returns a new pgxpool.Pool connected to it.
// The pool is closed via t.Cleanup; the container lives until the process exits.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := DSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testhelper: failed to create pgxpool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

// DSN returns the connection string of the shared, migrated container,
// starting it on first use.
func DSN(t *testing.T) string {
	t.Helper()

	once.Do(func() {
		sharedDSN, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to setup test DB: %v", initErr)
	}
	return sharedDSN
}

// TruncateHistory empties translation_history.
func TruncateHistory(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), `TRUNCATE translation_history`); err != nil {
		t.Fatalf("testhelper: truncate translation_history: %v", err)
	}
}

func startContainerAndMigrate() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return "", fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return "", fmt.Errorf("goose new provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return "", fmt.Errorf("goose up: %w", err)
	}

	return dsn, nil
}
