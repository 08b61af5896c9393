package vcs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/vcs"
	vcsRepo "inkwell/internal/domain/repositories/vcs"
	"inkwell/internal/repository/postgres"
)

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *postgres.RepositoryConfig) vcsRepo.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const versionColumns = `id, branch_id, content, commit_message, author_type, author_id, parent_version_id, created_at`

// Append inserts a version whose parent is the branch's current head.
// A transaction-scoped advisory lock on the branch id serializes concurrent
// commits, so two commits can never both claim the same parent and fork what
// must stay a linear chain. The lock is released at commit/rollback; it is
// never held across a network round trip to the caller.
func (r *PostgresVersionRepository) Append(ctx context.Context, version *models.Version) error {
	executor := postgres.GetExecutor(ctx, r.pool)

	lock := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
	if _, err := executor.Exec(ctx, lock, version.BranchID); err != nil {
		return storageErr("lock branch for commit", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, branch_id, content, commit_message, author_type, author_id, parent_version_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT id FROM %s WHERE branch_id = $2 ORDER BY created_at DESC, id DESC LIMIT 1),
			NOW())
		RETURNING parent_version_id, created_at
	`, r.tables.Versions, r.tables.Versions)

	version.ID = uuid.NewString()
	err := executor.QueryRow(ctx, query,
		version.ID,
		version.BranchID,
		version.Content,
		version.CommitMessage,
		version.AuthorType,
		version.AuthorID,
	).Scan(&version.ParentVersionID, &version.CreatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("branch %s: %w", version.BranchID, domain.ErrNotFound)
		}
		return storageErr("append version", err)
	}

	return nil
}

// GetByID retrieves a version
func (r *PostgresVersionRepository) GetByID(ctx context.Context, id string) (*models.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, versionColumns, r.tables.Versions)

	executor := postgres.GetExecutor(ctx, r.pool)
	version, err := scanVersion(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
		}
		return nil, storageErr("get version", err)
	}

	return version, nil
}

// GetHead returns the newest version on a branch
func (r *PostgresVersionRepository) GetHead(ctx context.Context, branchID string) (*models.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE branch_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, versionColumns, r.tables.Versions)

	executor := postgres.GetExecutor(ctx, r.pool)
	version, err := scanVersion(executor.QueryRow(ctx, query, branchID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("head of branch %s: %w", branchID, domain.ErrNotFound)
		}
		return nil, storageErr("get branch head", err)
	}

	return version, nil
}

// ListByBranch returns versions newest-first with limit/offset paging
func (r *PostgresVersionRepository) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]models.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE branch_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, versionColumns, r.tables.Versions)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, branchID, limit, offset)
	if err != nil {
		return nil, storageErr("list versions", err)
	}
	defer rows.Close()

	var versions []models.Version
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, storageErr("scan version", err)
		}
		versions = append(versions, *version)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list versions", err)
	}

	return versions, nil
}

func scanVersion(row rowScanner) (*models.Version, error) {
	var version models.Version
	err := row.Scan(
		&version.ID,
		&version.BranchID,
		&version.Content,
		&version.CommitMessage,
		&version.AuthorType,
		&version.AuthorID,
		&version.ParentVersionID,
		&version.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &version, nil
}
