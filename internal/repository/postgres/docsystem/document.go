package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/docsystem"
	docsysRepo "inkwell/internal/domain/repositories/docsystem"
	"inkwell/internal/repository/postgres"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) docsysRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, content, visibility, owner_id, has_unpushed_changes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.Documents)

	doc.ID = uuid.NewString()
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.Visibility,
		doc.OwnerID,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return storageErr("create document", err)
	}
	doc.HasUnpushedChanges = false

	return nil
}

// GetByRef retrieves a document by its composite (id, created_at) key
func (r *PostgresDocumentRepository) GetByRef(ctx context.Context, ref models.DocumentRef) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, visibility, owner_id, has_unpushed_changes, created_at, updated_at
		FROM %s
		WHERE id = $1 AND created_at = $2
	`, r.tables.Documents)

	var doc models.Document
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, ref.ID, ref.CreatedAt).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.Visibility,
		&doc.OwnerID,
		&doc.HasUnpushedChanges,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", ref.ID, domain.ErrNotFound)
		}
		return nil, storageErr("get document", err)
	}

	return &doc, nil
}

// UpdateContent overwrites the document's live content and bumps updated_at
func (r *PostgresDocumentRepository) UpdateContent(ctx context.Context, ref models.DocumentRef, content string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $3, updated_at = NOW()
		WHERE id = $1 AND created_at = $2
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, ref.ID, ref.CreatedAt, content)
	if err != nil {
		return storageErr("update document content", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", ref.ID, domain.ErrNotFound)
	}

	return nil
}

// RecomputeUnpushedChanges derives the flag from the pending-change queue in
// one statement, so concurrent resolutions can never leave it stale.
func (r *PostgresDocumentRepository) RecomputeUnpushedChanges(ctx context.Context, ref models.DocumentRef) error {
	query := fmt.Sprintf(`
		UPDATE %s d
		SET has_unpushed_changes = EXISTS (
			SELECT 1 FROM %s c
			WHERE c.document_id = d.id
			  AND c.document_created_at = d.created_at
			  AND c.status = 'pending'
		)
		WHERE d.id = $1 AND d.created_at = $2
	`, r.tables.Documents, r.tables.PendingChanges)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, ref.ID, ref.CreatedAt)
	if err != nil {
		return storageErr("recompute unpushed changes", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", ref.ID, domain.ErrNotFound)
	}

	return nil
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}
