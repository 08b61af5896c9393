package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	vcsSvc "inkwell/internal/domain/services/vcs"
)

// MergeHandler handles merge HTTP requests
type MergeHandler struct {
	mergeService vcsSvc.MergeService
	logger       *slog.Logger
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(mergeService vcsSvc.MergeService, logger *slog.Logger) *MergeHandler {
	return &MergeHandler{
		mergeService: mergeService,
		logger:       logger,
	}
}

// Merge combines two branches into a new version on the target branch
// POST /api/merges
func (h *MergeHandler) Merge(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var req vcsSvc.MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.UserID = userID

	result, err := h.mergeService.Merge(c.Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
