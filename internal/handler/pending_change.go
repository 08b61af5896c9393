package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	vcsModels "inkwell/internal/domain/models/vcs"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

// PendingChangeHandler handles pending change queue HTTP requests
type PendingChangeHandler struct {
	changeService vcsSvc.PendingChangeService
	logger        *slog.Logger
}

// NewPendingChangeHandler creates a new pending change handler
func NewPendingChangeHandler(changeService vcsSvc.PendingChangeService, logger *slog.Logger) *PendingChangeHandler {
	return &PendingChangeHandler{
		changeService: changeService,
		logger:        logger,
	}
}

// CreatePendingChange stages an edit against a document
// POST /api/pending-changes
func (h *PendingChangeHandler) CreatePendingChange(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var req vcsSvc.CreatePendingChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.UserID = userID

	change, err := h.changeService.CreatePendingChange(c.Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(change)
}

// ListPendingChanges lists unresolved changes, oldest-first
// GET /api/pending-changes?document_id=...&document_created_at=...
func (h *PendingChangeHandler) ListPendingChanges(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	ref, err := parseDocumentRef(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	changes, err := h.changeService.ListPendingChanges(c.Context(), userID, ref)
	if err != nil {
		return handleError(c, err)
	}

	if changes == nil {
		changes = []vcsModels.PendingChange{}
	}
	return c.JSON(changes)
}

// AcceptPendingChange applies a staged edit
// POST /api/pending-changes/:id/accept
func (h *PendingChangeHandler) AcceptPendingChange(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Pending change ID is required")
	}

	var req vcsSvc.AcceptPendingChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.ChangeID = id
	req.UserID = userID

	if err := h.changeService.AcceptPendingChange(c.Context(), &req); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RejectPendingChange discards a staged edit
// POST /api/pending-changes/:id/reject
func (h *PendingChangeHandler) RejectPendingChange(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Pending change ID is required")
	}

	if err := h.changeService.RejectPendingChange(c.Context(), userID, id); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PushLocalChanges records a direct commit that bypasses staging
// POST /api/documents/push
func (h *PendingChangeHandler) PushLocalChanges(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var req vcsSvc.PushLocalChangesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.UserID = userID

	if err := h.changeService.PushLocalChanges(c.Context(), &req); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
