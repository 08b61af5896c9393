package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"inkwell/internal/domain"
	docModels "inkwell/internal/domain/models/docsystem"
	models "inkwell/internal/domain/models/vcs"
	"inkwell/internal/domain/repositories"
	docsysRepo "inkwell/internal/domain/repositories/docsystem"
	vcsRepo "inkwell/internal/domain/repositories/vcs"
	vcsSvc "inkwell/internal/domain/services/vcs"
	serviceAuth "inkwell/internal/service/auth"
)

// Compile-time interface checks for the fakes
var (
	_ docsysRepo.DocumentRepository   = (*fakeDocumentRepo)(nil)
	_ vcsRepo.BranchRepository        = (*fakeBranchRepo)(nil)
	_ vcsRepo.VersionRepository       = (*fakeVersionRepo)(nil)
	_ vcsRepo.MergeRepository         = (*fakeMergeRepo)(nil)
	_ vcsRepo.BranchRequestRepository = (*fakeBranchRequestRepo)(nil)
	_ vcsRepo.PendingChangeRepository = (*fakePendingChangeRepo)(nil)
	_ repositories.TransactionManager = (*fakeTxManager)(nil)
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

type refKey struct {
	id        string
	createdAt int64
}

func keyOf(ref docModels.DocumentRef) refKey {
	return refKey{id: ref.ID, createdAt: ref.CreatedAt.UnixNano()}
}

// memStore is the shared in-memory state behind the fake repositories. The
// fakes honor the same contracts as the Postgres implementations: conditional
// status transitions, head-computed parents, derived unpushed flags.
type memStore struct {
	mu       sync.Mutex
	seq      int64
	docs     map[refKey]*docModels.Document
	branches map[string]*models.Branch
	versions []*models.Version
	requests map[string]*models.BranchRequest
	changes  map[string]*models.PendingChange
	merges   []*models.Merge
}

func newMemStore() *memStore {
	return &memStore{
		docs:     make(map[refKey]*docModels.Document),
		branches: make(map[string]*models.Branch),
		requests: make(map[string]*models.BranchRequest),
		changes:  make(map[string]*models.PendingChange),
	}
}

// nextTime returns strictly increasing timestamps so ordering is stable
func (s *memStore) nextTime() time.Time {
	s.seq++
	return time.Unix(0, s.seq*int64(time.Millisecond)).UTC()
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) hasPending(ref docModels.DocumentRef) bool {
	for _, change := range s.changes {
		if change.Document == ref && change.Status == models.PendingChangePending {
			return true
		}
	}
	return false
}

// --- document repository fake ---

type fakeDocumentRepo struct{ s *memStore }

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *docModels.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc.ID = r.s.nextID("doc")
	doc.CreatedAt = r.s.nextTime()
	doc.UpdatedAt = doc.CreatedAt
	copied := *doc
	r.s.docs[keyOf(doc.Ref())] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByRef(ctx context.Context, ref docModels.DocumentRef) (*docModels.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.docs[keyOf(ref)]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", ref.ID, domain.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) UpdateContent(ctx context.Context, ref docModels.DocumentRef, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.docs[keyOf(ref)]
	if !ok {
		return fmt.Errorf("document %s: %w", ref.ID, domain.ErrNotFound)
	}
	doc.Content = content
	doc.UpdatedAt = r.s.nextTime()
	return nil
}

func (r *fakeDocumentRepo) RecomputeUnpushedChanges(ctx context.Context, ref docModels.DocumentRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.docs[keyOf(ref)]
	if !ok {
		return fmt.Errorf("document %s: %w", ref.ID, domain.ErrNotFound)
	}
	doc.HasUnpushedChanges = r.s.hasPending(ref)
	return nil
}

// --- branch repository fake ---

type fakeBranchRepo struct{ s *memStore }

func (r *fakeBranchRepo) Create(ctx context.Context, branch *models.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.branches {
		if existing.Document == branch.Document && existing.Name == branch.Name && existing.IsActive {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("branch '%s' already exists for this document", branch.Name),
				ResourceType: "branch",
			}
		}
	}
	branch.ID = r.s.nextID("branch")
	branch.IsActive = true
	branch.CreatedAt = r.s.nextTime()
	copied := *branch
	r.s.branches[branch.ID] = &copied
	return nil
}

func (r *fakeBranchRepo) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	branch, ok := r.s.branches[id]
	if !ok {
		return nil, fmt.Errorf("branch %s: %w", id, domain.ErrNotFound)
	}
	copied := *branch
	return &copied, nil
}

func (r *fakeBranchRepo) ListByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var branches []models.Branch
	for _, branch := range r.s.branches {
		if branch.Document == ref && branch.IsActive {
			branches = append(branches, *branch)
		}
	}
	// newest-first
	for i := 0; i < len(branches); i++ {
		for j := i + 1; j < len(branches); j++ {
			if branches[j].CreatedAt.After(branches[i].CreatedAt) {
				branches[i], branches[j] = branches[j], branches[i]
			}
		}
	}
	return branches, nil
}

func (r *fakeBranchRepo) CreateIfNotExists(ctx context.Context, branch *models.Branch) (*models.Branch, error) {
	r.s.mu.Lock()
	for _, existing := range r.s.branches {
		if existing.Document == branch.Document && existing.Name == branch.Name && existing.IsActive {
			copied := *existing
			r.s.mu.Unlock()
			return &copied, nil
		}
	}
	r.s.mu.Unlock()
	if err := r.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

func (r *fakeBranchRepo) Deactivate(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	branch, ok := r.s.branches[id]
	if !ok || !branch.IsActive {
		return fmt.Errorf("active branch %s: %w", id, domain.ErrNotFound)
	}
	branch.IsActive = false
	return nil
}

// --- version repository fake ---

type fakeVersionRepo struct{ s *memStore }

func (r *fakeVersionRepo) Append(ctx context.Context, version *models.Version) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.branches[version.BranchID]; !ok {
		return fmt.Errorf("branch %s: %w", version.BranchID, domain.ErrNotFound)
	}
	if head := r.s.headLocked(version.BranchID); head != nil {
		id := head.ID
		version.ParentVersionID = &id
	} else {
		version.ParentVersionID = nil
	}
	version.ID = r.s.nextID("version")
	version.CreatedAt = r.s.nextTime()
	copied := *version
	r.s.versions = append(r.s.versions, &copied)
	return nil
}

func (s *memStore) headLocked(branchID string) *models.Version {
	var head *models.Version
	for _, version := range s.versions {
		if version.BranchID != branchID {
			continue
		}
		if head == nil || version.CreatedAt.After(head.CreatedAt) {
			head = version
		}
	}
	return head
}

func (r *fakeVersionRepo) GetByID(ctx context.Context, id string) (*models.Version, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, version := range r.s.versions {
		if version.ID == id {
			copied := *version
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
}

func (r *fakeVersionRepo) GetHead(ctx context.Context, branchID string) (*models.Version, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	head := r.s.headLocked(branchID)
	if head == nil {
		return nil, fmt.Errorf("head of branch %s: %w", branchID, domain.ErrNotFound)
	}
	copied := *head
	return &copied, nil
}

func (r *fakeVersionRepo) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]models.Version, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var versions []models.Version
	// stored in insert order; walk backwards for newest-first
	for i := len(r.s.versions) - 1; i >= 0; i-- {
		if r.s.versions[i].BranchID == branchID {
			versions = append(versions, *r.s.versions[i])
		}
	}
	if offset >= len(versions) {
		return nil, nil
	}
	versions = versions[offset:]
	if limit < len(versions) {
		versions = versions[:limit]
	}
	return versions, nil
}

// --- merge repository fake ---

type fakeMergeRepo struct{ s *memStore }

func (r *fakeMergeRepo) Create(ctx context.Context, merge *models.Merge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	merge.ID = r.s.nextID("merge")
	merge.CreatedAt = r.s.nextTime()
	copied := *merge
	r.s.merges = append(r.s.merges, &copied)
	return nil
}

func (r *fakeMergeRepo) ListByTargetBranch(ctx context.Context, targetBranchID string) ([]models.Merge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var merges []models.Merge
	for i := len(r.s.merges) - 1; i >= 0; i-- {
		if r.s.merges[i].TargetBranchID == targetBranchID {
			merges = append(merges, *r.s.merges[i])
		}
	}
	return merges, nil
}

// --- branch request repository fake ---

type fakeBranchRequestRepo struct{ s *memStore }

func (r *fakeBranchRequestRepo) Create(ctx context.Context, request *models.BranchRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request.ID = r.s.nextID("request")
	request.Status = models.BranchRequestPending
	request.CreatedAt = r.s.nextTime()
	copied := *request
	r.s.requests[request.ID] = &copied
	return nil
}

func (r *fakeBranchRequestRepo) GetByID(ctx context.Context, id string) (*models.BranchRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request, ok := r.s.requests[id]
	if !ok {
		return nil, fmt.Errorf("branch request %s: %w", id, domain.ErrNotFound)
	}
	copied := *request
	return &copied, nil
}

func (r *fakeBranchRequestRepo) ListByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.BranchRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var requests []models.BranchRequest
	for _, request := range r.s.requests {
		if request.Document == ref {
			requests = append(requests, *request)
		}
	}
	for i := 0; i < len(requests); i++ {
		for j := i + 1; j < len(requests); j++ {
			if requests[j].CreatedAt.After(requests[i].CreatedAt) {
				requests[i], requests[j] = requests[j], requests[i]
			}
		}
	}
	return requests, nil
}

func (r *fakeBranchRequestRepo) Resolve(ctx context.Context, id string, status models.BranchRequestStatus, finalName *string) (*models.BranchRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request, ok := r.s.requests[id]
	// conditional update: only a pending row transitions
	if !ok || request.Status != models.BranchRequestPending {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("branch request %s is already resolved", id),
			ResourceType: "branch_request",
			ResourceID:   id,
		}
	}
	request.Status = status
	now := r.s.nextTime()
	request.RespondedAt = &now
	if finalName != nil {
		request.ProposedName = *finalName
	}
	copied := *request
	return &copied, nil
}

// --- pending change repository fake ---

type fakePendingChangeRepo struct{ s *memStore }

func (r *fakePendingChangeRepo) Create(ctx context.Context, change *models.PendingChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.docs[keyOf(change.Document)]; !ok {
		return fmt.Errorf("document %s: %w", change.Document.ID, domain.ErrNotFound)
	}
	change.ID = r.s.nextID("change")
	change.Status = models.PendingChangePending
	change.CreatedAt = r.s.nextTime()
	copied := *change
	r.s.changes[change.ID] = &copied
	return nil
}

func (r *fakePendingChangeRepo) GetByID(ctx context.Context, id string) (*models.PendingChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	change, ok := r.s.changes[id]
	if !ok {
		return nil, fmt.Errorf("pending change %s: %w", id, domain.ErrNotFound)
	}
	copied := *change
	return &copied, nil
}

func (r *fakePendingChangeRepo) ListPendingByDocument(ctx context.Context, ref docModels.DocumentRef) ([]models.PendingChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var changes []models.PendingChange
	for _, change := range r.s.changes {
		if change.Document == ref && change.Status == models.PendingChangePending {
			changes = append(changes, *change)
		}
	}
	// oldest-first
	for i := 0; i < len(changes); i++ {
		for j := i + 1; j < len(changes); j++ {
			if changes[j].CreatedAt.Before(changes[i].CreatedAt) {
				changes[i], changes[j] = changes[j], changes[i]
			}
		}
	}
	return changes, nil
}

func (r *fakePendingChangeRepo) MarkResolved(ctx context.Context, id string, status models.PendingChangeStatus) (*models.PendingChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	change, ok := r.s.changes[id]
	// conditional update: only a pending row transitions
	if !ok || change.Status != models.PendingChangePending {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("pending change %s is already resolved", id),
			ResourceType: "pending_change",
			ResourceID:   id,
		}
	}
	change.Status = status
	now := r.s.nextTime()
	change.ResolvedAt = &now
	copied := *change
	return &copied, nil
}

// --- transaction manager fake ---

// fakeTxManager runs the function directly; the fakes mutate shared state
// in place so there is nothing to roll back.
type fakeTxManager struct{}

func (*fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// --- test environment ---

// testEnv wires the real services against the in-memory fakes and the real
// ownership authorizer.
type testEnv struct {
	store *memStore

	docRepo     *fakeDocumentRepo
	branchRepo  *fakeBranchRepo
	versionRepo *fakeVersionRepo
	mergeRepo   *fakeMergeRepo
	requestRepo *fakeBranchRequestRepo
	changeRepo  *fakePendingChangeRepo

	branches vcsSvc.BranchService
	versions vcsSvc.VersionService
	merges   vcsSvc.MergeService
	requests vcsSvc.BranchRequestService
	changes  vcsSvc.PendingChangeService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:       store,
		docRepo:     &fakeDocumentRepo{s: store},
		branchRepo:  &fakeBranchRepo{s: store},
		versionRepo: &fakeVersionRepo{s: store},
		mergeRepo:   &fakeMergeRepo{s: store},
		requestRepo: &fakeBranchRequestRepo{s: store},
		changeRepo:  &fakePendingChangeRepo{s: store},
	}

	logger := newTestLogger()
	tx := &fakeTxManager{}
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(env.docRepo)

	env.branches = NewBranchService(env.branchRepo, authorizer, logger)
	env.versions = NewVersionService(env.versionRepo, env.branchRepo, tx, authorizer, logger)
	env.merges = NewMergeService(env.mergeRepo, env.versionRepo, env.branchRepo, tx, authorizer, logger)
	env.requests = NewBranchRequestService(env.requestRepo, authorizer, logger)
	env.changes = NewPendingChangeService(env.changeRepo, env.docRepo, env.branchRepo, env.versionRepo, tx, authorizer, logger)

	return env
}

func (e *testEnv) createDocument(t *testing.T, owner, content string, visibility docModels.Visibility) *docModels.Document {
	t.Helper()
	doc := &docModels.Document{
		Title:      "Test Document",
		Content:    content,
		Visibility: visibility,
		OwnerID:    owner,
	}
	if err := e.docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc
}

func (e *testEnv) createBranch(t *testing.T, userID string, ref docModels.DocumentRef, name string) *models.Branch {
	t.Helper()
	branch, err := e.branches.CreateBranch(context.Background(), &vcsSvc.CreateBranchRequest{
		Document: ref,
		UserID:   userID,
		Name:     name,
		Creator:  models.Actor{Type: models.ActorUser, ID: userID},
	})
	if err != nil {
		t.Fatalf("create branch %q: %v", name, err)
	}
	return branch
}

func (e *testEnv) commit(t *testing.T, userID, branchID, content string) *models.Version {
	t.Helper()
	version, err := e.versions.CommitVersion(context.Background(), &vcsSvc.CommitVersionRequest{
		BranchID: branchID,
		UserID:   userID,
		Content:  content,
		Author:   models.Actor{Type: models.ActorUser, ID: userID},
	})
	if err != nil {
		t.Fatalf("commit to branch %s: %v", branchID, err)
	}
	return version
}

func (e *testEnv) getDocument(t *testing.T, ref docModels.DocumentRef) *docModels.Document {
	t.Helper()
	doc, err := e.docRepo.GetByRef(context.Background(), ref)
	if err != nil {
		t.Fatalf("get document %s: %v", ref.ID, err)
	}
	return doc
}
