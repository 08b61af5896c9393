package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names so dev/test/prod can
// share a database without colliding.
type TableNames struct {
	Documents      string
	Branches       string
	Versions       string
	Merges         string
	BranchRequests string
	PendingChanges string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Documents:      fmt.Sprintf("%sdocuments", prefix),
		Branches:       fmt.Sprintf("%sbranches", prefix),
		Versions:       fmt.Sprintf("%sversions", prefix),
		Merges:         fmt.Sprintf("%smerges", prefix),
		BranchRequests: fmt.Sprintf("%sbranch_requests", prefix),
		PendingChanges: fmt.Sprintf("%spending_changes", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool with an explicit
// open/close lifecycle. The pool is constructed here and injected into
// repositories; nothing in this codebase reaches for a global client.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
// This enables repositories to automatically participate in transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
