package vcs

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
	vcsRepo "inkwell/internal/domain/repositories/vcs"
	docsysSvc "inkwell/internal/domain/services/docsystem"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

// branchService implements the BranchService interface
type branchService struct {
	branchRepo vcsRepo.BranchRepository
	authorizer docsysSvc.DocumentAuthorizer
	logger     *slog.Logger
}

// NewBranchService creates a new branch service
func NewBranchService(
	branchRepo vcsRepo.BranchRepository,
	authorizer docsysSvc.DocumentAuthorizer,
	logger *slog.Logger,
) vcsSvc.BranchService {
	return &branchService{
		branchRepo: branchRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// CreateBranch creates a new named line of history for a document.
// The branch starts empty; the first commit creates its first version.
func (s *branchService) CreateBranch(ctx context.Context, req *vcsSvc.CreateBranchRequest) (*models.Branch, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Branch creation mutates document history: private documents are
	// owner-only. Also surfaces NotFound for absent documents.
	if err := s.authorizer.CanWriteDocument(ctx, req.UserID, req.Document); err != nil {
		return nil, err
	}

	// The parent, when given, must be a branch of the same document. The
	// storage layer does not enforce tree shape; this is the one cheap
	// check that keeps forks attached to their own document.
	if req.ParentBranchID != nil {
		parent, err := s.branchRepo.GetByID(ctx, *req.ParentBranchID)
		if err != nil {
			return nil, err
		}
		if parent.Document != req.Document {
			return nil, fmt.Errorf("%w: parent branch belongs to a different document", domain.ErrValidation)
		}
	}

	branch := &models.Branch{
		Document:       req.Document,
		Name:           req.Name,
		ParentBranchID: req.ParentBranchID,
		CreatedByType:  req.Creator.Type,
		CreatedByID:    req.Creator.ID,
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}

	s.logger.Info("branch created",
		"branch_id", branch.ID,
		"document_id", branch.Document.ID,
		"name", branch.Name,
		"created_by_type", branch.CreatedByType,
	)

	return branch, nil
}

// ListBranches returns a document's active branches, newest-first
func (s *branchService) ListBranches(ctx context.Context, userID string, ref docModels.DocumentRef) ([]models.Branch, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: document reference is required", domain.ErrValidation)
	}
	return s.branchRepo.ListByDocument(ctx, ref)
}

// GetBranch retrieves a branch by id
func (s *branchService) GetBranch(ctx context.Context, userID, branchID string) (*models.Branch, error) {
	if branchID == "" {
		return nil, fmt.Errorf("%w: branch id is required", domain.ErrValidation)
	}
	return s.branchRepo.GetByID(ctx, branchID)
}

// DeactivateBranch soft-deletes a branch; its versions stay in the ledger
func (s *branchService) DeactivateBranch(ctx context.Context, userID, branchID string) error {
	branch, err := s.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return err
	}

	if err := s.authorizer.CanWriteDocument(ctx, userID, branch.Document); err != nil {
		return err
	}

	if err := s.branchRepo.Deactivate(ctx, branchID); err != nil {
		return err
	}

	s.logger.Info("branch deactivated", "branch_id", branchID, "user_id", userID)
	return nil
}

func (s *branchService) validateCreate(req *vcsSvc.CreateBranchRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Document, validation.By(requiredDocumentRef)),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxBranchNameLength),
		),
		validation.Field(&req.Creator, validation.By(validActor)),
	)
}

// validActor is an ozzo rule for the Actor value object
func validActor(value interface{}) error {
	actor, ok := value.(models.Actor)
	if !ok {
		return fmt.Errorf("must be an actor")
	}
	if !actor.Type.Valid() {
		return fmt.Errorf("actor type must be 'user' or 'ai'")
	}
	if actor.ID == "" {
		return fmt.Errorf("actor id is required")
	}
	return nil
}

// requiredDocumentRef is an ozzo rule for the composite document key
func requiredDocumentRef(value interface{}) error {
	ref, ok := value.(docModels.DocumentRef)
	if !ok {
		return fmt.Errorf("must be a document reference")
	}
	if ref.ID == "" || ref.CreatedAt.IsZero() {
		return fmt.Errorf("document id and created_at are both required")
	}
	return nil
}
