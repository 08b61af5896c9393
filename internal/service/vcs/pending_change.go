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
	"inkwell/internal/domain/repositories"
	docsysRepo "inkwell/internal/domain/repositories/docsystem"
	vcsRepo "inkwell/internal/domain/repositories/vcs"
	docsysSvc "inkwell/internal/domain/services/docsystem"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

// pendingChangeService implements the PendingChangeService interface.
// Staged edits never touch live content until accepted; every change resolves
// exactly once, and the document's has_unpushed_changes flag is re-derived
// from the queue after each mutation.
type pendingChangeService struct {
	changeRepo  vcsRepo.PendingChangeRepository
	docRepo     docsysRepo.DocumentRepository
	branchRepo  vcsRepo.BranchRepository
	versionRepo vcsRepo.VersionRepository
	txManager   repositories.TransactionManager
	authorizer  docsysSvc.DocumentAuthorizer
	logger      *slog.Logger
}

// NewPendingChangeService creates a new pending change service
func NewPendingChangeService(
	changeRepo vcsRepo.PendingChangeRepository,
	docRepo docsysRepo.DocumentRepository,
	branchRepo vcsRepo.BranchRepository,
	versionRepo vcsRepo.VersionRepository,
	txManager repositories.TransactionManager,
	authorizer docsysSvc.DocumentAuthorizer,
	logger *slog.Logger,
) vcsSvc.PendingChangeService {
	return &pendingChangeService{
		changeRepo:  changeRepo,
		docRepo:     docRepo,
		branchRepo:  branchRepo,
		versionRepo: versionRepo,
		txManager:   txManager,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// CreatePendingChange stages an edit and raises the unpushed flag
func (s *pendingChangeService) CreatePendingChange(ctx context.Context, req *vcsSvc.CreatePendingChangeRequest) (*models.PendingChange, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.authorizer.CanWriteDocument(ctx, req.UserID, req.Document); err != nil {
		return nil, err
	}

	change := &models.PendingChange{
		Document:    req.Document,
		Changes:     req.Changes,
		Description: req.Description,
		ChangeType:  req.ChangeType,
		AuthorType:  req.Author.Type,
		AuthorID:    req.Author.ID,
	}
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.changeRepo.Create(txCtx, change); err != nil {
			return err
		}
		return s.docRepo.RecomputeUnpushedChanges(txCtx, req.Document)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pending change staged",
		"change_id", change.ID,
		"document_id", change.Document.ID,
		"change_type", change.ChangeType,
	)

	return change, nil
}

// ListPendingChanges returns unresolved changes oldest-first
func (s *pendingChangeService) ListPendingChanges(ctx context.Context, userID string, ref docModels.DocumentRef) ([]models.PendingChange, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: document reference is required", domain.ErrValidation)
	}
	return s.changeRepo.ListPendingByDocument(ctx, ref)
}

// AcceptPendingChange applies a staged edit in one transaction:
//  1. flip status pending->accepted (conditional update; losers conflict)
//  2. overwrite the document's live content and bump updated_at
//  3. append an audit version to the document's main branch
//  4. re-derive has_unpushed_changes from what is still pending
//
// A failure at any step rolls the whole thing back, so content can never
// change without its audit version.
func (s *pendingChangeService) AcceptPendingChange(ctx context.Context, req *vcsSvc.AcceptPendingChangeRequest) error {
	if err := s.validateAccept(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	change, err := s.changeRepo.GetByID(ctx, req.ChangeID)
	if err != nil {
		return err
	}
	// Checked here for a fast, clean error; the conditional update below is
	// what actually guards the race.
	if change.Status.Terminal() {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("pending change %s is already %s", change.ID, change.Status),
			ResourceType: "pending_change",
			ResourceID:   change.ID,
		}
	}

	if err := s.authorizer.CanWriteDocument(ctx, req.UserID, change.Document); err != nil {
		return err
	}

	message := fmt.Sprintf("Accepted change: %s", change.Description)
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.changeRepo.MarkResolved(txCtx, change.ID, models.PendingChangeAccepted); err != nil {
			return err
		}
		if err := s.docRepo.UpdateContent(txCtx, change.Document, req.NewContent); err != nil {
			return err
		}

		branch, err := s.ensureMainBranch(txCtx, change.Document, req.UserID)
		if err != nil {
			return err
		}
		version := &models.Version{
			BranchID:      branch.ID,
			Content:       req.NewContent,
			CommitMessage: &message,
			AuthorType:    models.ActorUser,
			AuthorID:      change.AuthorID,
		}
		if err := s.versionRepo.Append(txCtx, version); err != nil {
			return err
		}

		return s.docRepo.RecomputeUnpushedChanges(txCtx, change.Document)
	})
	if err != nil {
		return err
	}

	s.logger.Info("pending change accepted",
		"change_id", change.ID,
		"document_id", change.Document.ID,
		"accepted_by", req.UserID,
	)

	return nil
}

// RejectPendingChange discards a staged edit without touching content
func (s *pendingChangeService) RejectPendingChange(ctx context.Context, userID, changeID string) error {
	if userID == "" || changeID == "" {
		return fmt.Errorf("%w: user id and change id are required", domain.ErrValidation)
	}

	change, err := s.changeRepo.GetByID(ctx, changeID)
	if err != nil {
		return err
	}
	if change.Status.Terminal() {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("pending change %s is already %s", change.ID, change.Status),
			ResourceType: "pending_change",
			ResourceID:   change.ID,
		}
	}

	if err := s.authorizer.CanWriteDocument(ctx, userID, change.Document); err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.changeRepo.MarkResolved(txCtx, change.ID, models.PendingChangeRejected); err != nil {
			return err
		}
		return s.docRepo.RecomputeUnpushedChanges(txCtx, change.Document)
	})
	if err != nil {
		return err
	}

	s.logger.Info("pending change rejected",
		"change_id", change.ID,
		"document_id", change.Document.ID,
		"rejected_by", userID,
	)

	return nil
}

// PushLocalChanges is a direct user-authored commit that bypasses staging:
// content update, one version, flag re-derived — atomically.
func (s *pendingChangeService) PushLocalChanges(ctx context.Context, req *vcsSvc.PushLocalChangesRequest) error {
	if err := s.validatePush(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.authorizer.CanWriteDocument(ctx, req.UserID, req.Document); err != nil {
		return err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.UpdateContent(txCtx, req.Document, req.Content); err != nil {
			return err
		}

		branch, err := s.ensureMainBranch(txCtx, req.Document, req.UserID)
		if err != nil {
			return err
		}
		version := &models.Version{
			BranchID:      branch.ID,
			Content:       req.Content,
			CommitMessage: req.CommitMessage,
			AuthorType:    req.Author.Type,
			AuthorID:      req.Author.ID,
		}
		if err := s.versionRepo.Append(txCtx, version); err != nil {
			return err
		}

		// Re-derived rather than blindly cleared: a push does not resolve
		// edits that are still staged.
		return s.docRepo.RecomputeUnpushedChanges(txCtx, req.Document)
	})
	if err != nil {
		return err
	}

	s.logger.Info("local changes pushed",
		"document_id", req.Document.ID,
		"pushed_by", req.UserID,
	)

	return nil
}

// ensureMainBranch lazily materializes the per-document main branch that
// receives audit versions from acceptance and pushes.
func (s *pendingChangeService) ensureMainBranch(ctx context.Context, ref docModels.DocumentRef, userID string) (*models.Branch, error) {
	return s.branchRepo.CreateIfNotExists(ctx, &models.Branch{
		Document:      ref,
		Name:          models.MainBranchName,
		CreatedByType: models.ActorUser,
		CreatedByID:   userID,
	})
}

func (s *pendingChangeService) validateCreate(req *vcsSvc.CreatePendingChangeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Document, validation.By(requiredDocumentRef)),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Changes, validation.Required.Error("diff payload is required")),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxChangeDescriptionLength),
		),
		validation.Field(&req.ChangeType,
			validation.Required,
			validation.In(models.ChangeAISuggestion, models.ChangeUserEdit),
		),
		validation.Field(&req.Author, validation.By(validActor)),
	)
}

func (s *pendingChangeService) validateAccept(req *vcsSvc.AcceptPendingChangeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ChangeID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
	)
}

func (s *pendingChangeService) validatePush(req *vcsSvc.PushLocalChangesRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Document, validation.By(requiredDocumentRef)),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.CommitMessage,
			validation.Length(0, config.MaxCommitMessageLength),
		),
		validation.Field(&req.Author, validation.By(validActor)),
	)
}
