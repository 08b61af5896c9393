package vcs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	models "inkwell/internal/domain/models/vcs"
	vcsRepo "inkwell/internal/domain/repositories/vcs"
	"inkwell/internal/repository/postgres"
)

// PostgresMergeRepository implements the MergeRepository interface
type PostgresMergeRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewMergeRepository creates a new merge repository
func NewMergeRepository(config *postgres.RepositoryConfig) vcsRepo.MergeRepository {
	return &PostgresMergeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a merge audit record
func (r *PostgresMergeRepository) Create(ctx context.Context, merge *models.Merge) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, source_branch_id, target_branch_id, merged_version_id, merged_by_type, merged_by_id, merge_strategy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`, r.tables.Merges)

	merge.ID = uuid.NewString()
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		merge.ID,
		merge.SourceBranchID,
		merge.TargetBranchID,
		merge.MergedVersionID,
		merge.MergedByType,
		merge.MergedByID,
		merge.MergeStrategy,
	).Scan(&merge.CreatedAt)
	if err != nil {
		return storageErr("create merge", err)
	}

	return nil
}

// ListByTargetBranch returns merges into a branch, newest-first
func (r *PostgresMergeRepository) ListByTargetBranch(ctx context.Context, targetBranchID string) ([]models.Merge, error) {
	query := fmt.Sprintf(`
		SELECT id, source_branch_id, target_branch_id, merged_version_id, merged_by_type, merged_by_id, merge_strategy, created_at
		FROM %s
		WHERE target_branch_id = $1
		ORDER BY created_at DESC
	`, r.tables.Merges)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, targetBranchID)
	if err != nil {
		return nil, storageErr("list merges", err)
	}
	defer rows.Close()

	var merges []models.Merge
	for rows.Next() {
		var merge models.Merge
		err := rows.Scan(
			&merge.ID,
			&merge.SourceBranchID,
			&merge.TargetBranchID,
			&merge.MergedVersionID,
			&merge.MergedByType,
			&merge.MergedByID,
			&merge.MergeStrategy,
			&merge.CreatedAt,
		)
		if err != nil {
			return nil, storageErr("scan merge", err)
		}
		merges = append(merges, merge)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list merges", err)
	}

	return merges, nil
}
