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

// PostgresPendingChangeRepository implements the PendingChangeRepository interface
type PostgresPendingChangeRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewPendingChangeRepository creates a new pending change repository
func NewPendingChangeRepository(config *postgres.RepositoryConfig) vcsRepo.PendingChangeRepository {
	return &PostgresPendingChangeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const pendingChangeColumns = `id, document_id, document_created_at, changes, description, change_type, author_type, author_id, status, created_at, resolved_at`

// Create inserts a new change with status=pending
func (r *PostgresPendingChangeRepository) Create(ctx context.Context, change *models.PendingChange) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, document_created_at, changes, description, change_type, author_type, author_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', NOW())
		RETURNING created_at
	`, r.tables.PendingChanges)

	change.ID = uuid.NewString()
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		change.ID,
		change.Document.ID,
		change.Document.CreatedAt,
		change.Changes,
		change.Description,
		change.ChangeType,
		change.AuthorType,
		change.AuthorID,
	).Scan(&change.CreatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", change.Document.ID, domain.ErrNotFound)
		}
		return storageErr("create pending change", err)
	}
	change.Status = models.PendingChangePending

	return nil
}

// GetByID retrieves a change
func (r *PostgresPendingChangeRepository) GetByID(ctx context.Context, id string) (*models.PendingChange, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, pendingChangeColumns, r.tables.PendingChanges)

	executor := postgres.GetExecutor(ctx, r.pool)
	change, err := scanPendingChange(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("pending change %s: %w", id, domain.ErrNotFound)
		}
		return nil, storageErr("get pending change", err)
	}

	return change, nil
}

// ListPendingByDocument returns unresolved changes oldest-first (FIFO review order)
func (r *PostgresPendingChangeRepository) ListPendingByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.PendingChange, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1 AND document_created_at = $2 AND status = 'pending'
		ORDER BY created_at ASC
	`, pendingChangeColumns, r.tables.PendingChanges)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ref.ID, ref.CreatedAt)
	if err != nil {
		return nil, storageErr("list pending changes", err)
	}
	defer rows.Close()

	var changes []models.PendingChange
	for rows.Next() {
		change, err := scanPendingChange(rows)
		if err != nil {
			return nil, storageErr("scan pending change", err)
		}
		changes = append(changes, *change)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list pending changes", err)
	}

	return changes, nil
}

// MarkResolved flips a pending change to its terminal status in one
// conditional update keyed on the expected prior status. Two racing accepts
// cannot both pass: the loser sees zero rows affected and gets a conflict.
func (r *PostgresPendingChangeRepository) MarkResolved(ctx context.Context, id string, status models.PendingChangeStatus) (*models.PendingChange, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, r.tables.PendingChanges, pendingChangeColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	change, err := scanPendingChange(executor.QueryRow(ctx, query, id, status))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("pending change %s is already resolved", id),
				ResourceType: "pending_change",
				ResourceID:   id,
			}
		}
		return nil, storageErr("resolve pending change", err)
	}

	return change, nil
}

func scanPendingChange(row rowScanner) (*models.PendingChange, error) {
	var change models.PendingChange
	err := row.Scan(
		&change.ID,
		&change.Document.ID,
		&change.Document.CreatedAt,
		&change.Changes,
		&change.Description,
		&change.ChangeType,
		&change.AuthorType,
		&change.AuthorID,
		&change.Status,
		&change.CreatedAt,
		&change.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &change, nil
}
