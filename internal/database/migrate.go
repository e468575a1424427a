package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// migrationLockID is the advisory lock key held while migrations run, so concurrent
// starts against one database apply them one at a time.
const migrationLockID = 7_410_288_113

// Migrate applies all pending schema migrations to the database at databaseURL.
// goose drives database/sql, so it gets its own short-lived connection through lib/pq
// instead of borrowing from the pgx pool.
func Migrate(databaseURL string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}

	sqlDB, err := goose.OpenDBWithDriver("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	// The advisory lock is session scoped; pin goose to the connection that holds it.
	sqlDB.SetMaxOpenConns(1)
	ctx := context.Background()
	if _, err := sqlDB.ExecContext(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquiring migration lock: %w", err)
	}
	defer func() { _, _ = sqlDB.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID) }()

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}
