//go:build integration

// Package containers provides shared testcontainers instances for
// integration tests. Containers are started once per test binary and shared
// across suites; Ryuk reaps them when the run ends.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers Postgres instance with an open DB.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

var schema = `
CREATE TABLE IF NOT EXISTS courses (
    id                  UUID PRIMARY KEY,
    code                TEXT NOT NULL,
    title               TEXT NOT NULL,
    instructor_id       TEXT NOT NULL,
    instructor_name     TEXT NOT NULL,
    instructor_email    TEXT NOT NULL,
    day_of_week         TEXT NOT NULL,
    start_time          TEXT NOT NULL,
    end_time            TEXT NOT NULL,
    expected_attendance INT  NOT NULL,
    capacity            INT  NOT NULL,
    enrolled            INT  NOT NULL DEFAULT 0 CHECK (enrolled >= 0),
    created_at          TIMESTAMPTZ NOT NULL,
    CONSTRAINT courses_code_key UNIQUE (code)
);

CREATE TABLE IF NOT EXISTS users (
    id         UUID PRIMARY KEY,
    student_id TEXT NOT NULL,
    name       TEXT NOT NULL,
    major      TEXT NOT NULL,
    grade      INT  NOT NULL,
    email      TEXT NOT NULL,
    deleted    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

-- Soft-deleted rows keep their identifiers but release them for reuse.
CREATE UNIQUE INDEX IF NOT EXISTS users_student_id_key ON users (student_id) WHERE NOT deleted;
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email)) WHERE NOT deleted;

CREATE TABLE IF NOT EXISTS enrollments (
    id          UUID PRIMARY KEY,
    course_id   TEXT NOT NULL,
    student_id  TEXT NOT NULL,
    status      TEXT NOT NULL,
    enrolled_at TIMESTAMPTZ NOT NULL,
    CONSTRAINT enrollments_course_student_key UNIQUE (course_id, student_id)
);

CREATE TABLE IF NOT EXISTS outbox (
    id             UUID PRIMARY KEY,
    aggregate_type TEXT NOT NULL,
    aggregate_id   TEXT NOT NULL,
    event_type     TEXT NOT NULL,
    payload        JSONB NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL,
    published_at   TIMESTAMPTZ
);
`

type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
}

var mgr = &Manager{}

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	return mgr
}

// GetPostgres starts (or reuses) the shared Postgres container with the
// project schema applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postgres != nil {
		return m.postgres
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("coursecloud_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	m.postgres = &PostgresContainer{Container: container, DSN: dsn, DB: db}
	return m.postgres
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE %s", strings.Join(tables, ", ")))
	return err
}
