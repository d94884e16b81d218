package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gezgin/placewise/internal/auth"
	"github.com/gezgin/placewise/internal/logger"
	"github.com/gezgin/placewise/internal/models"
)

// ClaimsKey is the fiber.Ctx Locals key holding the parsed token claims.
const ClaimsKey = "claims"

// RequireAuth validates the Authorization: Bearer <token> header and
// stores the parsed claims in the request context.
func RequireAuth(tm *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return unauthorized(c, "missing bearer token")
		}

		claims, err := tm.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Err(err).
				Msg("Authentication failed")
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose token role is not admin. Must run
// after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(ClaimsKey).(*auth.Claims)
		if !ok {
			return unauthorized(c, "missing bearer token")
		}

		if claims.Role != models.RoleAdmin {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("user", claims.Subject).
				Msg("Unauthorized admin access attempt")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}

// TokenClaims returns the claims stored by RequireAuth, or nil.
func TokenClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsKey).(*auth.Claims)
	return claims
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
	})
}
