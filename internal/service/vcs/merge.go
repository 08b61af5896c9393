package vcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/vcs"
	"inkwell/internal/domain/repositories"
	vcsRepo "inkwell/internal/domain/repositories/vcs"
	docsysSvc "inkwell/internal/domain/services/docsystem"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

// mergeService implements the MergeService interface. It is intentionally a
// thin provenance-recording layer: no diffing, no conflict resolution. The
// caller reconciles content for manual merges; auto merges take the source
// head outright.
type mergeService struct {
	mergeRepo   vcsRepo.MergeRepository
	versionRepo vcsRepo.VersionRepository
	branchRepo  vcsRepo.BranchRepository
	txManager   repositories.TransactionManager
	authorizer  docsysSvc.DocumentAuthorizer
	logger      *slog.Logger
}

// NewMergeService creates a new merge service
func NewMergeService(
	mergeRepo vcsRepo.MergeRepository,
	versionRepo vcsRepo.VersionRepository,
	branchRepo vcsRepo.BranchRepository,
	txManager repositories.TransactionManager,
	authorizer docsysSvc.DocumentAuthorizer,
	logger *slog.Logger,
) vcsSvc.MergeService {
	return &mergeService{
		mergeRepo:   mergeRepo,
		versionRepo: versionRepo,
		branchRepo:  branchRepo,
		txManager:   txManager,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// Merge produces exactly one new version on the target branch and one merge
// audit row, atomically. The source branch is never touched.
func (s *mergeService) Merge(ctx context.Context, req *vcsSvc.MergeRequest) (*vcsSvc.MergeResult, error) {
	if err := s.validateMerge(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	source, err := s.branchRepo.GetByID(ctx, req.SourceBranchID)
	if err != nil {
		return nil, err
	}
	target, err := s.branchRepo.GetByID(ctx, req.TargetBranchID)
	if err != nil {
		return nil, err
	}
	if source.Document != target.Document {
		return nil, fmt.Errorf("%w: branches belong to different documents", domain.ErrValidation)
	}

	if err := s.authorizer.CanWriteDocument(ctx, req.UserID, target.Document); err != nil {
		return nil, err
	}

	// Both branches must have history before a merge means anything
	sourceHead, err := s.versionRepo.GetHead(ctx, source.ID)
	if err != nil {
		return nil, branchEmptyConflict(source.ID, err)
	}
	if _, err := s.versionRepo.GetHead(ctx, target.ID); err != nil {
		return nil, branchEmptyConflict(target.ID, err)
	}

	content := sourceHead.Content
	if req.Strategy == models.MergeManual {
		content = *req.Content
	}
	message := fmt.Sprintf("Merged branch %q into %q", source.Name, target.Name)

	version := &models.Version{
		BranchID:      target.ID,
		Content:       content,
		CommitMessage: &message,
		AuthorType:    req.Merger.Type,
		AuthorID:      req.Merger.ID,
	}
	merge := &models.Merge{
		SourceBranchID: source.ID,
		TargetBranchID: target.ID,
		MergedByType:   req.Merger.Type,
		MergedByID:     req.Merger.ID,
		MergeStrategy:  req.Strategy,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.versionRepo.Append(txCtx, version); err != nil {
			return err
		}
		merge.MergedVersionID = version.ID
		return s.mergeRepo.Create(txCtx, merge)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("branches merged",
		"merge_id", merge.ID,
		"source_branch_id", source.ID,
		"target_branch_id", target.ID,
		"strategy", merge.MergeStrategy,
		"merged_version_id", merge.MergedVersionID,
	)

	return &vcsSvc.MergeResult{Merge: merge, Version: version}, nil
}

// branchEmptyConflict turns a missing head into a conflict: the branch
// exists, it just has nothing to merge yet.
func branchEmptyConflict(branchID string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("branch %s has no versions to merge", branchID),
			ResourceType: "branch",
			ResourceID:   branchID,
		}
	}
	return err
}

func (s *mergeService) validateMerge(req *vcsSvc.MergeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.SourceBranchID, validation.Required),
		validation.Field(&req.TargetBranchID,
			validation.Required,
			validation.By(func(interface{}) error {
				if req.SourceBranchID != "" && req.SourceBranchID == req.TargetBranchID {
					return fmt.Errorf("cannot merge a branch into itself")
				}
				return nil
			}),
		),
		validation.Field(&req.Strategy,
			validation.Required,
			validation.In(models.MergeAuto, models.MergeManual),
		),
		validation.Field(&req.Content,
			validation.By(func(interface{}) error {
				if req.Strategy == models.MergeManual && req.Content == nil {
					return fmt.Errorf("manual merge requires reconciled content")
				}
				return nil
			}),
		),
		validation.Field(&req.Merger, validation.By(validActor)),
	)
}
