package db

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewPostgres opens a PostgreSQL connection pool for the given DSN.
func NewPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect failed: %w", err)
	}

	conn.SetMaxOpenConns(100)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return conn, nil
}

// RunMigrations applies the SQL files from the migrations directory.
// Applied migrations are tracked in schema_migrations by file name.
func RunMigrations(ctx context.Context, conn *sqlx.DB, migrationsDir string) error {
	if err := initMigrationsTable(ctx, conn); err != nil {
		return fmt.Errorf("postgres: init migrations table: %w", err)
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("postgres: read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		migrationName := entry.Name()

		alreadyApplied, err := isMigrationApplied(ctx, conn, migrationName)
		if err != nil {
			return fmt.Errorf("postgres: check migration %s: %w", migrationName, err)
		}
		if alreadyApplied {
			continue
		}

		path := filepath.Join(migrationsDir, migrationName)
		if err := applyMigration(ctx, conn, path, migrationName); err != nil {
			return err
		}
	}

	return nil
}

func initMigrationsTable(ctx context.Context, conn *sqlx.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := conn.ExecContext(ctx, query)
	return err
}

func isMigrationApplied(ctx context.Context, conn *sqlx.DB, migrationName string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM schema_migrations WHERE name = $1`
	if err := conn.GetContext(ctx, &count, query, migrationName); err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyMigration runs one SQL file inside a transaction and records it.
func applyMigration(ctx context.Context, conn *sqlx.DB, path string, migrationName string) error {
	sqlBytes, err := fs.ReadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return fmt.Errorf("postgres: read migration %s: %w", path, err)
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin tx for migration %s: %w", migrationName, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("postgres: apply migration %s: %w", path, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, migrationName); err != nil {
		return fmt.Errorf("postgres: record migration %s: %w", migrationName, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit migration %s: %w", migrationName, err)
	}

	return nil
}
