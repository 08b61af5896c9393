package vcs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
	vcsRepo "inkwell/internal/domain/repositories/vcs"
	"inkwell/internal/repository/postgres"
)

// PostgresBranchRepository implements the BranchRepository interface
type PostgresBranchRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(config *postgres.RepositoryConfig) vcsRepo.BranchRepository {
	return &PostgresBranchRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const branchColumns = `id, document_id, document_created_at, name, parent_branch_id, created_by_type, created_by_id, is_active, created_at`

// Create inserts a new branch
func (r *PostgresBranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, document_created_at, name, parent_branch_id, created_by_type, created_by_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW())
		RETURNING created_at
	`, r.tables.Branches)

	branch.ID = uuid.NewString()
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		branch.ID,
		branch.Document.ID,
		branch.Document.CreatedAt,
		branch.Name,
		branch.ParentBranchID,
		branch.CreatedByType,
		branch.CreatedByID,
	).Scan(&branch.CreatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("branch '%s' already exists for this document", branch.Name),
				ResourceType: "branch",
			}
		}
		return storageErr("create branch", err)
	}
	branch.IsActive = true

	return nil
}

// GetByID retrieves a branch regardless of active state
func (r *PostgresBranchRepository) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, branchColumns, r.tables.Branches)

	executor := postgres.GetExecutor(ctx, r.pool)
	branch, err := scanBranch(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("branch %s: %w", id, domain.ErrNotFound)
		}
		return nil, storageErr("get branch", err)
	}

	return branch, nil
}

// ListByDocument returns active branches for a document, newest-first
func (r *PostgresBranchRepository) ListByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.Branch, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1 AND document_created_at = $2 AND is_active
		ORDER BY created_at DESC
	`, branchColumns, r.tables.Branches)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ref.ID, ref.CreatedAt)
	if err != nil {
		return nil, storageErr("list branches", err)
	}
	defer rows.Close()

	var branches []models.Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, storageErr("scan branch", err)
		}
		branches = append(branches, *branch)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list branches", err)
	}

	return branches, nil
}

// CreateIfNotExists inserts the branch unless an active branch with the same
// name already exists, returning the surviving row either way.
func (r *PostgresBranchRepository) CreateIfNotExists(ctx context.Context, branch *models.Branch) (*models.Branch, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, document_created_at, name, parent_branch_id, created_by_type, created_by_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW())
		ON CONFLICT (document_id, document_created_at, name) WHERE is_active DO NOTHING
		RETURNING %s
	`, r.tables.Branches, branchColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	created, err := scanBranch(executor.QueryRow(ctx, insert,
		uuid.NewString(),
		branch.Document.ID,
		branch.Document.CreatedAt,
		branch.Name,
		branch.ParentBranchID,
		branch.CreatedByType,
		branch.CreatedByID,
	))
	if err == nil {
		return created, nil
	}
	if !postgres.IsPgNoRowsError(err) {
		return nil, storageErr("create branch if not exists", err)
	}

	// Insert was a no-op: the branch already exists, fetch it.
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1 AND document_created_at = $2 AND name = $3 AND is_active
	`, branchColumns, r.tables.Branches)

	existing, err := scanBranch(executor.QueryRow(ctx, query, branch.Document.ID, branch.Document.CreatedAt, branch.Name))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("branch '%s': %w", branch.Name, domain.ErrNotFound)
		}
		return nil, storageErr("get existing branch", err)
	}

	return existing, nil
}

// Deactivate soft-deletes a branch
func (r *PostgresBranchRepository) Deactivate(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_active = FALSE WHERE id = $1 AND is_active
	`, r.tables.Branches)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return storageErr("deactivate branch", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("active branch %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBranch(row rowScanner) (*models.Branch, error) {
	var branch models.Branch
	err := row.Scan(
		&branch.ID,
		&branch.Document.ID,
		&branch.Document.CreatedAt,
		&branch.Name,
		&branch.ParentBranchID,
		&branch.CreatedByType,
		&branch.CreatedByID,
		&branch.IsActive,
		&branch.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}
