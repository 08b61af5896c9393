package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	docsysSvc "inkwell/internal/domain/services/docsystem"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService docsysSvc.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService docsysSvc.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// CreateDocument creates a new document owned by the caller
// POST /api/documents
func (h *DocumentHandler) CreateDocument(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var req docsysSvc.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.UserID = userID

	doc, err := h.docService.CreateDocument(c.Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// GetDocument retrieves a document by its composite key
// GET /api/documents/:id?document_created_at=...
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	ref, err := parseDocumentRefFromPath(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	doc, err := h.docService.GetDocument(c.Context(), userID, ref)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(doc)
}
