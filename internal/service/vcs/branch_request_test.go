package vcs

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/domain"
	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

func proposeBranch(t *testing.T, env *testEnv, userID string, ref docModels.DocumentRef, name string) *models.BranchRequest {
	t.Helper()
	reason := "exploring an alternative structure"
	request, err := env.requests.CreateBranchRequest(context.Background(), &vcsSvc.CreateBranchRequestRequest{
		Document:     ref,
		UserID:       userID,
		ProposedName: name,
		Reason:       &reason,
		RequesterID:  "assistant-1",
	})
	if err != nil {
		t.Fatalf("propose branch %q: %v", name, err)
	}
	return request
}

func TestCreateBranchRequestStartsPending(t *testing.T) {
	env := newTestEnv()
	doc := env.createDocument(t, testOwner, "", docModels.VisibilityPrivate)

	request := proposeBranch(t, env, testOwner, doc.Ref(), "restructure")
	if request.Status != models.BranchRequestPending {
		t.Errorf("status = %s, want pending", request.Status)
	}
	if request.RequestedByType != models.ActorAI {
		t.Errorf("requested_by_type = %s, want ai", request.RequestedByType)
	}
	if request.RespondedAt != nil {
		t.Error("responded_at should be unset on a fresh request")
	}
}

func TestResolveBranchRequestApprovedWithFinalName(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc := env.createDocument(t, testOwner, "", docModels.VisibilityPrivate)
	request := proposeBranch(t, env, testOwner, doc.Ref(), "restructure")

	finalName := "restructure-v2"
	resolved, err := env.requests.ResolveBranchRequest(ctx, &vcsSvc.ResolveBranchRequestRequest{
		RequestID: request.ID,
		UserID:    testOwner,
		Decision:  models.BranchRequestApproved,
		FinalName: &finalName,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != models.BranchRequestApproved {
		t.Errorf("status = %s, want approved", resolved.Status)
	}
	if resolved.ProposedName != finalName {
		t.Errorf("proposed_name = %q, want overwritten to %q", resolved.ProposedName, finalName)
	}
	if resolved.RespondedAt == nil {
		t.Error("responded_at should be set on resolution")
	}

	// Approval does not materialize the branch; that is a separate step
	branches, err := env.branches.ListBranches(ctx, testOwner, doc.Ref())
	if err != nil {
		t.Fatalf("list branches: %v", err)
	}
	if len(branches) != 0 {
		t.Errorf("got %d branches, want 0: approval must not create branches", len(branches))
	}
}

func TestResolveBranchRequestRejectedKeepsProposedName(t *testing.T) {
	env := newTestEnv()
	doc := env.createDocument(t, testOwner, "", docModels.VisibilityPrivate)
	request := proposeBranch(t, env, testOwner, doc.Ref(), "restructure")

	// A final name on a rejection is ignored: the audit trail keeps what
	// the AI proposed.
	finalName := "should-be-ignored"
	resolved, err := env.requests.ResolveBranchRequest(context.Background(), &vcsSvc.ResolveBranchRequestRequest{
		RequestID: request.ID,
		UserID:    testOwner,
		Decision:  models.BranchRequestRejected,
		FinalName: &finalName,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != models.BranchRequestRejected {
		t.Errorf("status = %s, want rejected", resolved.Status)
	}
	if resolved.ProposedName != "restructure" {
		t.Errorf("proposed_name = %q, want original %q", resolved.ProposedName, "restructure")
	}
}

func TestResolveBranchRequestExactlyOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc := env.createDocument(t, testOwner, "", docModels.VisibilityPrivate)
	request := proposeBranch(t, env, testOwner, doc.Ref(), "restructure")

	resolve := &vcsSvc.ResolveBranchRequestRequest{
		RequestID: request.ID,
		UserID:    testOwner,
		Decision:  models.BranchRequestApproved,
	}
	if _, err := env.requests.ResolveBranchRequest(ctx, resolve); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	resolve.Decision = models.BranchRequestRejected
	if _, err := env.requests.ResolveBranchRequest(ctx, resolve); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("second resolve error = %v, want conflict", err)
	}

	// The first decision stands
	after, err := env.requestRepo.GetByID(ctx, request.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if after.Status != models.BranchRequestApproved {
		t.Errorf("status = %s, want approved to survive the losing resolve", after.Status)
	}
}

func TestResolveBranchRequestValidation(t *testing.T) {
	env := newTestEnv()
	doc := env.createDocument(t, testOwner, "", docModels.VisibilityPrivate)
	request := proposeBranch(t, env, testOwner, doc.Ref(), "restructure")

	// Resolving back to pending is not a decision
	_, err := env.requests.ResolveBranchRequest(context.Background(), &vcsSvc.ResolveBranchRequestRequest{
		RequestID: request.ID,
		UserID:    testOwner,
		Decision:  models.BranchRequestPending,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestBranchRequestAuthorization(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc := env.createDocument(t, testOwner, "", docModels.VisibilityPrivate)
	request := proposeBranch(t, env, testOwner, doc.Ref(), "restructure")

	_, err := env.requests.CreateBranchRequest(ctx, &vcsSvc.CreateBranchRequestRequest{
		Document:     doc.Ref(),
		UserID:       testOther,
		ProposedName: "sneaky",
		RequesterID:  "assistant-2",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("propose on private doc by non-owner = %v, want forbidden", err)
	}

	_, err = env.requests.ResolveBranchRequest(ctx, &vcsSvc.ResolveBranchRequestRequest{
		RequestID: request.ID,
		UserID:    testOther,
		Decision:  models.BranchRequestApproved,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("resolve by non-owner = %v, want forbidden", err)
	}
}

func TestListBranchRequestsNewestFirst(t *testing.T) {
	env := newTestEnv()
	doc := env.createDocument(t, testOwner, "", docModels.VisibilityPrivate)

	first := proposeBranch(t, env, testOwner, doc.Ref(), "one")
	second := proposeBranch(t, env, testOwner, doc.Ref(), "two")

	requests, err := env.requests.ListBranchRequests(context.Background(), testOwner, doc.Ref())
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(requests))
	}
	if requests[0].ID != second.ID || requests[1].ID != first.ID {
		t.Errorf("order = [%s, %s], want newest-first [%s, %s]",
			requests[0].ID, requests[1].ID, second.ID, first.ID)
	}
}
