package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"inkwell/internal/domain"
	docModels "inkwell/internal/domain/models/docsystem"
	vcsModels "inkwell/internal/domain/models/vcs"
	vcsSvc "inkwell/internal/domain/services/vcs"
	"inkwell/internal/middleware"
)

var _ vcsSvc.BranchService = (*stubBranchService)(nil)

// stubBranchService returns a canned branch or error
type stubBranchService struct {
	branch *vcsModels.Branch
	err    error
}

func (s *stubBranchService) CreateBranch(ctx context.Context, req *vcsSvc.CreateBranchRequest) (*vcsModels.Branch, error) {
	return s.branch, s.err
}

func (s *stubBranchService) ListBranches(ctx context.Context, userID string, ref docModels.DocumentRef) ([]vcsModels.Branch, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

func (s *stubBranchService) GetBranch(ctx context.Context, userID, branchID string) (*vcsModels.Branch, error) {
	return s.branch, s.err
}

func (s *stubBranchService) DeactivateBranch(ctx context.Context, userID, branchID string) error {
	return s.err
}

// newBranchApp builds a fiber app with the branch routes behind a stubbed
// authenticated user.
func newBranchApp(service vcsSvc.BranchService, userID string) *fiber.App {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	handler := NewBranchHandler(service, logger)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("userID", userID)
		}
		return c.Next()
	})
	app.Post("/api/branches", handler.CreateBranch)
	app.Get("/api/branches", handler.ListBranches)
	app.Get("/api/branches/:id", handler.GetBranch)
	app.Delete("/api/branches/:id", handler.DeactivateBranch)
	return app
}

func createBranchRequest(t *testing.T) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"document": map[string]interface{}{
			"document_id":         "doc-1",
			"document_created_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
		"name":    "drafting",
		"creator": map[string]string{"type": "user", "id": "user-1"},
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, "/api/branches", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateBranchReturnsCreated(t *testing.T) {
	service := &stubBranchService{branch: &vcsModels.Branch{ID: "branch-1", Name: "drafting"}}
	app := newBranchApp(service, "user-1")

	resp, err := app.Test(createBranchRequest(t))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
	}

	var got vcsModels.Branch
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != "branch-1" {
		t.Errorf("branch id = %s, want branch-1", got.ID)
	}
}

func TestCreateBranchMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: name is required", domain.ErrValidation), fiber.StatusBadRequest},
		{"not found", fmt.Errorf("document: %w", domain.ErrNotFound), fiber.StatusNotFound},
		{"forbidden", fmt.Errorf("denied: %w", domain.ErrForbidden), fiber.StatusForbidden},
		{"conflict", &domain.ConflictError{Message: "branch exists", ResourceType: "branch"}, fiber.StatusConflict},
		{"storage", &domain.StorageError{Op: "insert branch", Err: fmt.Errorf("connection refused")}, fiber.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newBranchApp(&stubBranchService{err: tc.err}, "user-1")

			resp, err := app.Test(createBranchRequest(t))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestBranchRoutesRequireUser(t *testing.T) {
	app := newBranchApp(&stubBranchService{}, "")

	resp, err := app.Test(createBranchRequest(t))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestListBranchesRequiresCompositeKey(t *testing.T) {
	app := newBranchApp(&stubBranchService{}, "user-1")

	// Missing document_created_at: the id alone is not a document identity
	req, err := http.NewRequest(http.MethodGet, "/api/branches?document_id=doc-1", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}

func TestListBranchesReturnsEmptyArray(t *testing.T) {
	app := newBranchApp(&stubBranchService{}, "user-1")

	url := "/api/branches?document_id=doc-1&document_created_at=" +
		time.Now().UTC().Format(time.RFC3339Nano)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got []vcsModels.Branch
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("body = %v, want empty JSON array", got)
	}
}
