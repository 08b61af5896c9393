package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	vcsModels "inkwell/internal/domain/models/vcs"
	vcsSvc "inkwell/internal/domain/services/vcs"
)

// VersionHandler handles version ledger HTTP requests
type VersionHandler struct {
	versionService vcsSvc.VersionService
	logger         *slog.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(versionService vcsSvc.VersionService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{
		versionService: versionService,
		logger:         logger,
	}
}

// CommitVersion appends a snapshot to a branch
// POST /api/branches/:id/versions
func (h *VersionHandler) CommitVersion(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	branchID := c.Params("id")
	if branchID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Branch ID is required")
	}

	var req vcsSvc.CommitVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.BranchID = branchID
	req.UserID = userID

	version, err := h.versionService.CommitVersion(c.Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(version)
}

// ListVersions lists a branch's versions, newest-first, paged
// GET /api/branches/:id/versions?limit=50&offset=0
func (h *VersionHandler) ListVersions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	branchID := c.Params("id")
	if branchID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Branch ID is required")
	}

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	versions, err := h.versionService.ListVersions(c.Context(), userID, branchID, limit, offset)
	if err != nil {
		return handleError(c, err)
	}

	if versions == nil {
		versions = []vcsModels.Version{}
	}
	return c.JSON(versions)
}
