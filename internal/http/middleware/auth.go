package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"quickscan/internal/auth"
)

// ClaimsLocalKey is the key under which validated token claims are stored
// in Fiber's context locals.
const ClaimsLocalKey = "claims"

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// BearerAuth rejects requests without a valid Authorization: Bearer token.
// Validated claims are stored in locals for downstream handlers.
func BearerAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid Authorization header format")
		}

		claims, err := validator.Validate(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// ClaimsFromCtx extracts claims previously stored by BearerAuth.
func ClaimsFromCtx(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims, ok
}
