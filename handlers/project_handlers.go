package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"craftmotion/studio-api/internal/timelog"
	"craftmotion/studio-api/models"
	"craftmotion/studio-api/utils"
)

// CreateProjectRequest defines the expected request body for creating a
// project. Name and client are required.
type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description *string    `json:"description,omitempty"`
	ClientID    uuid.UUID  `json:"client_id" validate:"required"`
	BudgetCents *int64     `json:"budget_cents,omitempty" validate:"omitempty,gte=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateProjectRequest is the typed partial update for a project. Status
// changes ride along here and are admin-gated by the route.
type UpdateProjectRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
	BudgetCents *int64                `json:"budget_cents,omitempty" validate:"omitempty,gte=0"`
	Deadline    *time.Time            `json:"deadline,omitempty"`
}

// CreateProject creates a new project for an existing client.
// POST /api/v1/projects
func (h *ApplicationHandler) CreateProject(c *fiber.Ctx) error {
	var payload CreateProjectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse project JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	// The owning client must exist before the project row is written.
	if _, err := h.Store.Client(payload.ClientID); err != nil {
		return utils.RespondWithError(c, fiber.StatusUnprocessableEntity, "Client does not exist")
	}

	now := time.Now()
	project, err := h.Store.InsertProject(models.Project{
		ID:          uuid.New(),
		Name:        payload.Name,
		Description: payload.Description,
		ClientID:    payload.ClientID,
		Status:      models.ProjectDraft,
		BudgetCents: payload.BudgetCents,
		Deadline:    payload.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.Logger.Errorf("Error creating project: %v", err)
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, project)
}

// GetProjects lists all projects.
// GET /api/v1/projects
func (h *ApplicationHandler) GetProjects(c *fiber.Ctx) error {
	projects, err := h.Store.Projects()
	if err != nil {
		h.Logger.Errorf("Error fetching projects: %v", err)
		return utils.RespondWithAppError(c, err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, projects)
}

// GetProject retrieves a specific project by its ID.
// GET /api/v1/projects/:id
func (h *ApplicationHandler) GetProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid project ID format")
	}
	project, err := h.Store.Project(projectID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, project)
}

// UpdateProject partially updates a project. Status is admin action only;
// the route group enforces the role.
// PATCH /api/v1/projects/:id
func (h *ApplicationHandler) UpdateProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid project ID format")
	}

	var payload UpdateProjectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	fields := make(map[string]interface{})
	if payload.Name != nil {
		if strings.TrimSpace(*payload.Name) == "" {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Project name must not be empty")
		}
		fields["name"] = *payload.Name
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.Status != nil {
		if !payload.Status.Valid() {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Unknown project status")
		}
		fields["status"] = string(*payload.Status)
	}
	if payload.BudgetCents != nil {
		fields["budget_cents"] = *payload.BudgetCents
	}
	if payload.Deadline != nil {
		fields["deadline"] = *payload.Deadline
	}

	project, err := h.Store.UpdateProject(projectID, fields)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, project)
}

// DeleteProject deletes a project.
// DELETE /api/v1/projects/:id
func (h *ApplicationHandler) DeleteProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid project ID format")
	}
	if err := h.Store.DeleteProject(projectID); err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetProjectStats reports the task board summary for a project.
// GET /api/v1/projects/:id/stats
func (h *ApplicationHandler) GetProjectStats(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid project ID format")
	}
	if _, err := h.Store.Project(projectID); err != nil {
		return utils.RespondWithAppError(c, err)
	}
	tasks, err := h.Store.TasksForProject(projectID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	entries, err := h.Store.TimeEntriesForProject(projectID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, timelog.ProjectStats(tasks, entries))
}
