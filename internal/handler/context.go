package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	docModels "inkwell/internal/domain/models/docsystem"
)

// getUserID extracts the authenticated principal from the context
func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// parseDocumentRef reads the composite document key from query parameters.
// Both halves are required; the pair is the identity, never the id alone.
func parseDocumentRef(c *fiber.Ctx) (docModels.DocumentRef, error) {
	id := c.Query("document_id")
	createdAtRaw := c.Query("document_created_at")
	if id == "" || createdAtRaw == "" {
		return docModels.DocumentRef{}, fmt.Errorf("document_id and document_created_at query parameters are required")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtRaw)
	if err != nil {
		return docModels.DocumentRef{}, fmt.Errorf("document_created_at must be RFC 3339: %v", err)
	}

	return docModels.DocumentRef{ID: id, CreatedAt: createdAt}, nil
}

// parseDocumentRefFromPath reads the document id from the URL path and the
// creation timestamp from the query string.
func parseDocumentRefFromPath(c *fiber.Ctx) (docModels.DocumentRef, error) {
	id := c.Params("id")
	createdAtRaw := c.Query("document_created_at")
	if id == "" || createdAtRaw == "" {
		return docModels.DocumentRef{}, fmt.Errorf("document id and document_created_at are required")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtRaw)
	if err != nil {
		return docModels.DocumentRef{}, fmt.Errorf("document_created_at must be RFC 3339: %v", err)
	}

	return docModels.DocumentRef{ID: id, CreatedAt: createdAt}, nil
}
