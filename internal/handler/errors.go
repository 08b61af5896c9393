package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"inkwell/internal/domain"
)

// handleError maps domain errors to HTTP status codes
func handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStorage):
		// Infrastructure failure, not the caller's fault
		return fiber.NewError(fiber.StatusServiceUnavailable, "Storage unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
