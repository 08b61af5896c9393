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

// PostgresBranchRequestRepository implements the BranchRequestRepository interface
type PostgresBranchRequestRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewBranchRequestRepository creates a new branch request repository
func NewBranchRequestRepository(config *postgres.RepositoryConfig) vcsRepo.BranchRequestRepository {
	return &PostgresBranchRequestRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const branchRequestColumns = `id, document_id, document_created_at, proposed_name, reason, requested_by_type, requested_by_id, status, responded_at, created_at`

// Create inserts a new request with status=pending
func (r *PostgresBranchRequestRepository) Create(ctx context.Context, request *models.BranchRequest) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, document_created_at, proposed_name, reason, requested_by_type, requested_by_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', NOW())
		RETURNING created_at
	`, r.tables.BranchRequests)

	request.ID = uuid.NewString()
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		request.ID,
		request.Document.ID,
		request.Document.CreatedAt,
		request.ProposedName,
		request.Reason,
		request.RequestedByType,
		request.RequestedByID,
	).Scan(&request.CreatedAt)
	if err != nil {
		return storageErr("create branch request", err)
	}
	request.Status = models.BranchRequestPending

	return nil
}

// GetByID retrieves a request
func (r *PostgresBranchRequestRepository) GetByID(ctx context.Context, id string) (*models.BranchRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, branchRequestColumns, r.tables.BranchRequests)

	executor := postgres.GetExecutor(ctx, r.pool)
	request, err := scanBranchRequest(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("branch request %s: %w", id, domain.ErrNotFound)
		}
		return nil, storageErr("get branch request", err)
	}

	return request, nil
}

// ListByDocument returns requests for a document, newest-first
func (r *PostgresBranchRequestRepository) ListByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.BranchRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1 AND document_created_at = $2
		ORDER BY created_at DESC
	`, branchRequestColumns, r.tables.BranchRequests)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ref.ID, ref.CreatedAt)
	if err != nil {
		return nil, storageErr("list branch requests", err)
	}
	defer rows.Close()

	var requests []models.BranchRequest
	for rows.Next() {
		request, err := scanBranchRequest(rows)
		if err != nil {
			return nil, storageErr("scan branch request", err)
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list branch requests", err)
	}

	return requests, nil
}

// Resolve flips a pending request to its terminal status in one conditional
// update. Zero rows affected means someone else resolved it first; that is a
// conflict, never a silent overwrite.
func (r *PostgresBranchRequestRepository) Resolve(ctx context.Context, id string, status models.BranchRequestStatus, finalName *string) (*models.BranchRequest, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, responded_at = NOW(), proposed_name = COALESCE($3, proposed_name)
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, r.tables.BranchRequests, branchRequestColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	request, err := scanBranchRequest(executor.QueryRow(ctx, query, id, status, finalName))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("branch request %s is already resolved", id),
				ResourceType: "branch_request",
				ResourceID:   id,
			}
		}
		return nil, storageErr("resolve branch request", err)
	}

	return request, nil
}

func scanBranchRequest(row rowScanner) (*models.BranchRequest, error) {
	var request models.BranchRequest
	err := row.Scan(
		&request.ID,
		&request.Document.ID,
		&request.Document.CreatedAt,
		&request.ProposedName,
		&request.Reason,
		&request.RequestedByType,
		&request.RequestedByID,
		&request.Status,
		&request.RespondedAt,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
