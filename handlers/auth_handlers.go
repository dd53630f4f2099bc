package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"craftmotion/studio-api/internal/session"
	"craftmotion/studio-api/middleware"
	"craftmotion/studio-api/utils"
)

// LoginPayload is the credential body shared by both login endpoints.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a studio team member against the users table.
// POST /api/v1/auth/login
func (h *ApplicationHandler) Login(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse login JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	user, err := h.Store.UserByEmail(payload.Email)
	if err != nil || !session.CheckPassword(user.PasswordHash, payload.Password) {
		h.Logger.WithField("email", payload.Email).Warn("Failed dashboard login")
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.Sessions.Issue(user.ID, user.Name, session.RoleAdmin)
	if err != nil {
		h.Logger.Errorf("Error issuing session token: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not create session")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"token": token, "role": session.RoleAdmin})
}

// PortalLogin authenticates a client portal user.
// POST /api/v1/portal/login
func (h *ApplicationHandler) PortalLogin(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse login JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	client, err := h.Store.ClientByEmail(payload.Email)
	if err != nil || !session.CheckPassword(client.PasswordHash, payload.Password) {
		h.Logger.WithField("email", payload.Email).Warn("Failed portal login")
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.Sessions.Issue(client.ID, client.Name, session.RoleClient)
	if err != nil {
		h.Logger.Errorf("Error issuing session token: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not create session")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"token": token, "role": session.RoleClient})
}

// Me echoes the caller's identity and role, consumed by both UIs to gate
// navigation.
// GET /api/v1/auth/me
func (h *ApplicationHandler) Me(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Authentication required")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"id":   identity.ID,
		"name": identity.Name,
		"role": identity.Role,
	})
}
