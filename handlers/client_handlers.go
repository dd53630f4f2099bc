package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"craftmotion/studio-api/internal/session"
	"craftmotion/studio-api/models"
	"craftmotion/studio-api/utils"
)

// CreateClientRequest defines the body for creating a client. The portal
// password is optional; clients without one cannot log into the portal.
type CreateClientRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Company     *string `json:"company,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	CompanyCode *string `json:"company_code,omitempty"`
	VATCode     *string `json:"vat_code,omitempty"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// UpdateClientRequest is the typed partial update for a client.
type UpdateClientRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Company     *string `json:"company,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	CompanyCode *string `json:"company_code,omitempty"`
	VATCode     *string `json:"vat_code,omitempty"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// sanitizeClient blanks the credential hash before a client leaves the API.
func sanitizeClient(c *models.Client) *models.Client {
	c.PasswordHash = ""
	return c
}

// CreateClient creates a new studio client.
// POST /api/v1/clients
func (h *ApplicationHandler) CreateClient(c *fiber.Ctx) error {
	var payload CreateClientRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse client JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	now := time.Now()
	client := models.Client{
		ID:          uuid.New(),
		Name:        payload.Name,
		Email:       payload.Email,
		Company:     payload.Company,
		Phone:       payload.Phone,
		Address:     payload.Address,
		City:        payload.City,
		CompanyCode: payload.CompanyCode,
		VATCode:     payload.VATCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if payload.Password != nil {
		hash, err := session.HashPassword(*payload.Password)
		if err != nil {
			h.Logger.Errorf("Error hashing portal password: %v", err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not create client")
		}
		client.PasswordHash = hash
	}

	created, err := h.Store.InsertClient(client)
	if err != nil {
		h.Logger.Errorf("Error creating client: %v", err)
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, sanitizeClient(created))
}

// GetClients lists all clients.
// GET /api/v1/clients
func (h *ApplicationHandler) GetClients(c *fiber.Ctx) error {
	clients, err := h.Store.Clients()
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	out := make([]models.Client, 0, len(clients))
	for i := range clients {
		out = append(out, *sanitizeClient(&clients[i]))
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, out)
}

// GetClient retrieves a single client.
// GET /api/v1/clients/:id
func (h *ApplicationHandler) GetClient(c *fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid client ID format")
	}
	client, err := h.Store.Client(clientID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, sanitizeClient(client))
}

// UpdateClient partially updates a client.
// PATCH /api/v1/clients/:id
func (h *ApplicationHandler) UpdateClient(c *fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid client ID format")
	}

	var payload UpdateClientRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	fields := make(map[string]interface{})
	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.Email != nil {
		fields["email"] = *payload.Email
	}
	if payload.Company != nil {
		fields["company"] = *payload.Company
	}
	if payload.Phone != nil {
		fields["phone"] = *payload.Phone
	}
	if payload.Address != nil {
		fields["address"] = *payload.Address
	}
	if payload.City != nil {
		fields["city"] = *payload.City
	}
	if payload.CompanyCode != nil {
		fields["company_code"] = *payload.CompanyCode
	}
	if payload.VATCode != nil {
		fields["vat_code"] = *payload.VATCode
	}
	if payload.Password != nil {
		hash, err := session.HashPassword(*payload.Password)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not update client")
		}
		fields["password_hash"] = hash
	}

	client, err := h.Store.UpdateClient(clientID, fields)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, sanitizeClient(client))
}

// DeleteClient deletes a client, refused while the client still owns
// projects.
// DELETE /api/v1/clients/:id
func (h *ApplicationHandler) DeleteClient(c *fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid client ID format")
	}

	projects, err := h.Store.ProjectsForClient(clientID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	if len(projects) > 0 {
		return utils.RespondWithError(c, fiber.StatusConflict, "Client still owns projects and cannot be deleted")
	}

	if err := h.Store.DeleteClient(clientID); err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
