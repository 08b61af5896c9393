package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"inkwell/internal/auth"
)

// RequireAuth verifies the bearer token on every request and stores the
// authenticated principal in the request locals. Every operation in this
// core requires a caller identity; there are no anonymous paths.
func RequireAuth(verifier auth.JWTVerifier, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be a bearer token")
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			logger.Debug("token verification failed", "path", c.Path(), "error", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals("userID", claims.GetUserID())
		return c.Next()
	}
}
