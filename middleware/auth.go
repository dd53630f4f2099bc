package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"craftmotion/studio-api/internal/session"
	"craftmotion/studio-api/utils"
)

// identityKey is the locals key the resolved caller is stored under.
const identityKey = "identity"

// RequireAuth verifies the bearer token and attaches the caller identity.
func RequireAuth(manager *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Missing bearer token")
		}
		identity, err := manager.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid or expired session")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireRole gates a route to one role. Admin-only mutations (project
// status, task management, invoicing) use RoleAdmin; portal actions
// (approve, request changes) use RoleClient.
func RequireRole(role session.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := Identity(c)
		if identity == nil {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Authentication required")
		}
		if identity.Role != role {
			return utils.RespondWithError(c, fiber.StatusForbidden, "Insufficient permissions")
		}
		return c.Next()
	}
}

// Identity returns the caller attached by RequireAuth, or nil.
func Identity(c *fiber.Ctx) *session.Identity {
	identity, _ := c.Locals(identityKey).(*session.Identity)
	return identity
}
