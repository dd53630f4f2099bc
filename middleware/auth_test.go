package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftmotion/studio-api/internal/session"
)

func verdictApp(manager *session.Manager) *fiber.App {
	app := fiber.New()
	app.Post("/deliverables/:id/approve",
		RequireAuth(manager), RequireRole(session.RoleClient),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	app := verdictApp(session.NewManager("secret"))

	req := httptest.NewRequest(fiber.MethodPost, "/deliverables/abc/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleBlocksAdminFromClientVerdict(t *testing.T) {
	manager := session.NewManager("secret")
	app := verdictApp(manager)

	token, err := manager.Issue(uuid.New(), "Ruta", session.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/deliverables/abc/approve", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRolePassesClientVerdict(t *testing.T) {
	manager := session.NewManager("secret")
	app := verdictApp(manager)

	token, err := manager.Issue(uuid.New(), "Jonas", session.RoleClient)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/deliverables/abc/approve", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
