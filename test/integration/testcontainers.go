package integration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContext holds the PostgreSQL testcontainer and an admin connection,
// shared by every scenario in the suite.
type TestContext struct {
	Container *tcpostgres.PostgresContainer
	Admin     *sql.DB
	// DSN is the keyword-form superuser connection string for the
	// container, used as the base DSN of every scenario.
	DSN string
}

// NewTestContext starts a PostgreSQL container and opens an admin connection
// for scenario setup and assertions.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("postgres"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s dbname=postgres user=postgres password=postgres sslmode=disable",
		host, port.Port(),
	)

	admin, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to open admin connection: %w", err)
	}
	if err := admin.Ping(); err != nil {
		_ = admin.Close()
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping server: %w", err)
	}

	return &TestContext{
		Container: pgContainer,
		Admin:     admin,
		DSN:       dsn,
	}, nil
}

// PrepareServerDir creates a directory inside the container, owned by the
// server's OS user, so it can back a tablespace. The engine only prepares
// directories on its own filesystem; the server side is the harness's job.
func (tc *TestContext) PrepareServerDir(ctx context.Context, path string) error {
	script := fmt.Sprintf("mkdir -p %s && chown -R postgres:postgres %s && chmod 700 %s", path, path, path)
	code, _, err := tc.Container.Exec(ctx, []string{"sh", "-c", script})
	if err != nil {
		return fmt.Errorf("failed to prepare %s in container: %w", path, err)
	}
	if code != 0 {
		return fmt.Errorf("failed to prepare %s in container: exit code %d", path, code)
	}
	return nil
}

// DropAll removes the scenario objects so the next scenario starts from a
// clean catalog. The database goes first, it depends on the other two.
func (tc *TestContext) DropAll(role, database, tablespace string) error {
	stmts := []string{
		"DROP DATABASE IF EXISTS " + pq.QuoteIdentifier(database),
		"DROP TABLESPACE IF EXISTS " + pq.QuoteIdentifier(tablespace),
		"DROP ROLE IF EXISTS " + pq.QuoteIdentifier(role),
	}
	for _, stmt := range stmts {
		if _, err := tc.Admin.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// Close tears down the admin connection and the container.
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Admin != nil {
		_ = tc.Admin.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
