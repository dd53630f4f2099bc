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

// CreateTaskRequest defines the body for creating a task; the owning
// project comes from the route.
type CreateTaskRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    *string  `json:"description,omitempty"`
	Category       string   `json:"category" validate:"required"`
	Status         *string  `json:"status,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" validate:"omitempty,gte=0"`
}

// UpdateTaskRequest is the typed partial update for a task.
type UpdateTaskRequest struct {
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Status         *string  `json:"status,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" validate:"omitempty,gte=0"`
}

// TaskWithProgress is a task enriched with hours recomputed from its time
// entries.
type TaskWithProgress struct {
	models.Task
	Progress timelog.Progress `json:"progress"`
}

// CreateTask creates a new task within a project.
// POST /api/v1/projects/:id/tasks
func (h *ApplicationHandler) CreateTask(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid project ID format")
	}

	var payload CreateTaskRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse task JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	category := models.TaskCategory(payload.Category)
	if !category.Valid() {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Unknown task category: "+payload.Category)
	}
	status := models.TaskTodo
	if payload.Status != nil {
		status = models.TaskStatus(*payload.Status)
		if !status.Valid() {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Unknown task status: "+*payload.Status)
		}
	}

	if _, err := h.Store.Project(projectID); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	now := time.Now()
	task := models.Task{
		ID:             uuid.New(),
		ProjectID:      projectID,
		Name:           payload.Name,
		Description:    payload.Description,
		Category:       category,
		Status:         status,
		EstimatedHours: payload.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := h.Store.InsertTask(task)
	if err != nil {
		h.Logger.Errorf("Error creating task: %v", err)
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, created)
}

// GetProjectTasks lists a project's tasks, each with progress recomputed
// from its time entries.
// GET /api/v1/projects/:id/tasks
func (h *ApplicationHandler) GetProjectTasks(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid project ID format")
	}

	tasks, err := h.Store.TasksForProject(projectID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	entries, err := h.Store.TimeEntriesForProject(projectID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}

	out := make([]TaskWithProgress, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, TaskWithProgress{
			Task:     task,
			Progress: timelog.TaskProgress(task, entries),
		})
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, out)
}

// GetTask retrieves a single task with its progress.
// GET /api/v1/tasks/:id
func (h *ApplicationHandler) GetTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid task ID format")
	}
	task, err := h.Store.Task(taskID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	entries, err := h.Store.TimeEntriesForTask(taskID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, TaskWithProgress{
		Task:     *task,
		Progress: timelog.TaskProgress(*task, entries),
	})
}

// UpdateTask partially updates a task.
// PATCH /api/v1/tasks/:id
func (h *ApplicationHandler) UpdateTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid task ID format")
	}

	var payload UpdateTaskRequest
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
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.Category != nil {
		if !models.TaskCategory(*payload.Category).Valid() {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Unknown task category: "+*payload.Category)
		}
		fields["category"] = *payload.Category
	}
	if payload.Status != nil {
		if !models.TaskStatus(*payload.Status).Valid() {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Unknown task status: "+*payload.Status)
		}
		fields["status"] = *payload.Status
	}
	if payload.EstimatedHours != nil {
		fields["estimated_hours"] = *payload.EstimatedHours
	}

	task, err := h.Store.UpdateTask(taskID, fields)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, task)
}

// DeleteTask deletes a task. Time entries that referenced it keep their
// hours but lose the task link.
// DELETE /api/v1/tasks/:id
func (h *ApplicationHandler) DeleteTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid task ID format")
	}
	if err := h.Store.DeleteTask(taskID); err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
