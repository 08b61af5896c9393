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

// branchRequestService implements the BranchRequestService interface.
// AI proposals sit pending until a human approves or rejects them; approval
// never creates the branch itself, that stays a caller-driven step.
type branchRequestService struct {
	requestRepo vcsRepo.BranchRequestRepository
	authorizer  docsysSvc.DocumentAuthorizer
	logger      *slog.Logger
}

// NewBranchRequestService creates a new branch request service
func NewBranchRequestService(
	requestRepo vcsRepo.BranchRequestRepository,
	authorizer docsysSvc.DocumentAuthorizer,
	logger *slog.Logger,
) vcsSvc.BranchRequestService {
	return &branchRequestService{
		requestRepo: requestRepo,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// CreateBranchRequest stages an AI branch proposal with status=pending
func (s *branchRequestService) CreateBranchRequest(ctx context.Context, req *vcsSvc.CreateBranchRequestRequest) (*models.BranchRequest, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Same access rule as branch creation: the gate exists to protect the
	// document, so the proposal is checked against it up front.
	if err := s.authorizer.CanWriteDocument(ctx, req.UserID, req.Document); err != nil {
		return nil, err
	}

	request := &models.BranchRequest{
		Document:        req.Document,
		ProposedName:    req.ProposedName,
		Reason:          req.Reason,
		RequestedByType: models.ActorAI, // only AI proposals go through the gate
		RequestedByID:   req.RequesterID,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("branch request created",
		"request_id", request.ID,
		"document_id", request.Document.ID,
		"proposed_name", request.ProposedName,
	)

	return request, nil
}

// ListBranchRequests returns a document's requests, newest-first
func (s *branchRequestService) ListBranchRequests(ctx context.Context, userID string, ref docModels.DocumentRef) ([]models.BranchRequest, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: document reference is required", domain.ErrValidation)
	}
	return s.requestRepo.ListByDocument(ctx, ref)
}

// ResolveBranchRequest moves a pending request to a terminal status, exactly
// once. The repository performs the transition as a conditional update, so a
// second resolver gets a conflict instead of silently overwriting the first
// decision.
func (s *branchRequestService) ResolveBranchRequest(ctx context.Context, req *vcsSvc.ResolveBranchRequestRequest) (*models.BranchRequest, error) {
	if err := s.validateResolve(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanWriteDocument(ctx, req.UserID, request.Document); err != nil {
		return nil, err
	}

	// The final name only applies on approval; a rejection keeps the
	// proposed name for the audit trail.
	var finalName *string
	if req.Decision == models.BranchRequestApproved {
		finalName = req.FinalName
	}

	resolved, err := s.requestRepo.Resolve(ctx, req.RequestID, req.Decision, finalName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("branch request resolved",
		"request_id", resolved.ID,
		"status", resolved.Status,
		"resolved_by", req.UserID,
	)

	return resolved, nil
}

func (s *branchRequestService) validateCreate(req *vcsSvc.CreateBranchRequestRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Document, validation.By(requiredDocumentRef)),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.ProposedName,
			validation.Required,
			validation.Length(1, config.MaxBranchNameLength),
		),
		validation.Field(&req.Reason,
			validation.Length(0, config.MaxRequestReasonLength),
		),
		validation.Field(&req.RequesterID, validation.Required),
	)
}

func (s *branchRequestService) validateResolve(req *vcsSvc.ResolveBranchRequestRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.RequestID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Decision,
			validation.Required,
			validation.In(models.BranchRequestApproved, models.BranchRequestRejected),
		),
		validation.Field(&req.FinalName,
			validation.Length(1, config.MaxBranchNameLength),
		),
	)
}
