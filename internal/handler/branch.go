package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	vcsModels "inkwell/internal/domain/models/vcs"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

// BranchHandler handles branch HTTP requests
type BranchHandler struct {
	branchService vcsSvc.BranchService
	logger        *slog.Logger
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService vcsSvc.BranchService, logger *slog.Logger) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
		logger:        logger,
	}
}

// CreateBranch creates a new branch for a document
// POST /api/branches
func (h *BranchHandler) CreateBranch(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var req vcsSvc.CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.UserID = userID

	branch, err := h.branchService.CreateBranch(c.Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(branch)
}

// ListBranches lists a document's active branches, newest-first
// GET /api/branches?document_id=...&document_created_at=...
func (h *BranchHandler) ListBranches(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	ref, err := parseDocumentRef(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	branches, err := h.branchService.ListBranches(c.Context(), userID, ref)
	if err != nil {
		return handleError(c, err)
	}

	if branches == nil {
		branches = []vcsModels.Branch{}
	}
	return c.JSON(branches)
}

// GetBranch retrieves a branch by id
// GET /api/branches/:id
func (h *BranchHandler) GetBranch(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Branch ID is required")
	}

	branch, err := h.branchService.GetBranch(c.Context(), userID, id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(branch)
}

// DeactivateBranch soft-deletes a branch
// DELETE /api/branches/:id
func (h *BranchHandler) DeactivateBranch(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Branch ID is required")
	}

	if err := h.branchService.DeactivateBranch(c.Context(), userID, id); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
