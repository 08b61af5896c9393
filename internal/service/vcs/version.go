package vcs

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/vcs"
	"inkwell/internal/domain/repositories"
	vcsRepo "inkwell/internal/domain/repositories/vcs"
	docsysSvc "inkwell/internal/domain/services/docsystem"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

// versionService implements the VersionService interface
type versionService struct {
	versionRepo vcsRepo.VersionRepository
	branchRepo  vcsRepo.BranchRepository
	txManager   repositories.TransactionManager
	authorizer  docsysSvc.DocumentAuthorizer
	logger      *slog.Logger
}

// NewVersionService creates a new version service
func NewVersionService(
	versionRepo vcsRepo.VersionRepository,
	branchRepo vcsRepo.BranchRepository,
	txManager repositories.TransactionManager,
	authorizer docsysSvc.DocumentAuthorizer,
	logger *slog.Logger,
) vcsSvc.VersionService {
	return &versionService{
		versionRepo: versionRepo,
		branchRepo:  branchRepo,
		txManager:   txManager,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// CommitVersion appends a snapshot to a branch. The append runs inside a
// transaction so the parent computation and the insert serialize with any
// concurrent commit to the same branch.
func (s *versionService) CommitVersion(ctx context.Context, req *vcsSvc.CommitVersionRequest) (*models.Version, error) {
	if err := s.validateCommit(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	branch, err := s.branchRepo.GetByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanWriteDocument(ctx, req.UserID, branch.Document); err != nil {
		return nil, err
	}

	version := &models.Version{
		BranchID:      branch.ID,
		Content:       req.Content,
		CommitMessage: req.CommitMessage,
		AuthorType:    req.Author.Type,
		AuthorID:      req.Author.ID,
	}
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.versionRepo.Append(txCtx, version)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("version committed",
		"version_id", version.ID,
		"branch_id", branch.ID,
		"author_type", version.AuthorType,
	)

	return version, nil
}

// ListVersions returns a branch's versions, newest-first, paged
func (s *versionService) ListVersions(ctx context.Context, userID, branchID string, limit, offset int) ([]models.Version, error) {
	if branchID == "" {
		return nil, fmt.Errorf("%w: branch id is required", domain.ErrValidation)
	}

	// Page size stays bounded so a history walk is finite per request and
	// restartable via offset.
	if limit <= 0 {
		limit = config.DefaultVersionPageSize
	}
	if limit > config.MaxVersionPageSize {
		limit = config.MaxVersionPageSize
	}
	if offset < 0 {
		offset = 0
	}

	// Surface NotFound for absent branches instead of an empty page
	if _, err := s.branchRepo.GetByID(ctx, branchID); err != nil {
		return nil, err
	}

	return s.versionRepo.ListByBranch(ctx, branchID, limit, offset)
}

func (s *versionService) validateCommit(req *vcsSvc.CommitVersionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.BranchID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.CommitMessage,
			validation.Length(0, config.MaxCommitMessageLength),
		),
		validation.Field(&req.Author, validation.By(validActor)),
	)
}
