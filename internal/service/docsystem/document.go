package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/docsystem"
	docsysRepo "inkwell/internal/domain/repositories/docsystem"
	docsysSvc "inkwell/internal/domain/services/docsystem"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo docsysRepo.DocumentRepository
	logger  *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(docRepo docsysRepo.DocumentRepository, logger *slog.Logger) docsysSvc.DocumentService {
	return &documentService{
		docRepo: docRepo,
		logger:  logger,
	}
}

// CreateDocument creates a new document owned by the caller
func (s *documentService) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPrivate
	}

	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc := &models.Document{
		Title:      req.Title,
		Content:    req.Content,
		Visibility: req.Visibility,
		OwnerID:    req.UserID,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"document_id", doc.ID,
		"owner_id", doc.OwnerID,
		"visibility", doc.Visibility,
	)

	return doc, nil
}

// GetDocument retrieves a document by its composite key
func (s *documentService) GetDocument(ctx context.Context, userID string, ref models.DocumentRef) (*models.Document, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: document reference is required", domain.ErrValidation)
	}
	return s.docRepo.GetByRef(ctx, ref)
}

func (s *documentService) validateCreate(req *docsysSvc.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxDocumentTitleLength),
		),
		validation.Field(&req.Visibility,
			validation.In(models.VisibilityPrivate, models.VisibilityShared),
		),
	)
}
