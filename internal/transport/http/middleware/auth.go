package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/planary/pkg/token"
)

// NewAuthMiddleware verifies the bearer access token and stores the resolved
// user id in request locals for the handlers behind it.
func NewAuthMiddleware(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missing header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: invalid header format"})
		}

		userID, err := tokens.Verify(parts[1], token.TypeAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: invalid token"})
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}
