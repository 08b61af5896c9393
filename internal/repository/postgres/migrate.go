package postgres

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// ApplyMigrations applies every embedded *.up.sql file in lexical order,
// recording applied versions in {prefix}schema_migrations. Table names in
// the SQL carry a {{prefix}} placeholder substituted at apply time so each
// environment gets its own tables.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, tablePrefix string) error {
	migrationsTable := tablePrefix + "schema_migrations"
	if err := ensureMigrationsTable(ctx, pool, migrationsTable); err != nil {
		return err
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if migrated, err := isMigrated(ctx, pool, migrationsTable, name); err != nil {
			return err
		} else if migrated {
			continue
		}

		contents, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		sql := strings.ReplaceAll(string(contents), "{{prefix}}", tablePrefix)

		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin migration tx %s: %w", name, err)
		}

		if _, err := tx.Exec(ctx, sql); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("execute migration %s: %w", name, err)
		}

		record := fmt.Sprintf(`INSERT INTO %s(version) VALUES($1)`, migrationsTable)
		if _, err := tx.Exec(ctx, record, name); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("record migration %s: %w", name, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}

	return nil
}

func ensureMigrationsTable(ctx context.Context, pool *pgxpool.Pool, table string) error {
	_, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, table))
	if err != nil {
		return fmt.Errorf("ensure %s: %w", table, err)
	}
	return nil
}

func isMigrated(ctx context.Context, pool *pgxpool.Pool, table, version string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE version = $1)`, table)
	if err := pool.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return exists, nil
}
