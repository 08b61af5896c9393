package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	vcsModels "inkwell/internal/domain/models/vcs"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

// BranchRequestHandler handles branch request HTTP requests
type BranchRequestHandler struct {
	requestService vcsSvc.BranchRequestService
	logger         *slog.Logger
}

// NewBranchRequestHandler creates a new branch request handler
func NewBranchRequestHandler(requestService vcsSvc.BranchRequestService, logger *slog.Logger) *BranchRequestHandler {
	return &BranchRequestHandler{
		requestService: requestService,
		logger:         logger,
	}
}

// CreateBranchRequest stages an AI branch proposal
// POST /api/branch-requests
func (h *BranchRequestHandler) CreateBranchRequest(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var req vcsSvc.CreateBranchRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.UserID = userID

	request, err := h.requestService.CreateBranchRequest(c.Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// ListBranchRequests lists a document's branch requests, newest-first
// GET /api/branch-requests?document_id=...&document_created_at=...
func (h *BranchRequestHandler) ListBranchRequests(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	ref, err := parseDocumentRef(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	requests, err := h.requestService.ListBranchRequests(c.Context(), userID, ref)
	if err != nil {
		return handleError(c, err)
	}

	if requests == nil {
		requests = []vcsModels.BranchRequest{}
	}
	return c.JSON(requests)
}

// ResolveBranchRequest approves or rejects a pending request, exactly once
// POST /api/branch-requests/:id/resolve
func (h *BranchRequestHandler) ResolveBranchRequest(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Branch request ID is required")
	}

	var req vcsSvc.ResolveBranchRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.RequestID = id
	req.UserID = userID

	resolved, err := h.requestService.ResolveBranchRequest(c.Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(resolved)
}
