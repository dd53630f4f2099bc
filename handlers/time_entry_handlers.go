package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"craftmotion/studio-api/config"
	"craftmotion/studio-api/internal/timelog"
	"craftmotion/studio-api/middleware"
	"craftmotion/studio-api/models"
	"craftmotion/studio-api/utils"
)

// CreateTimeEntryRequest defines the body for logging time, either from a
// stopped timer or manual entry.
type CreateTimeEntryRequest struct {
	ProjectID       uuid.UUID  `json:"project_id" validate:"required"`
	TaskID          *uuid.UUID `json:"task_id,omitempty"`
	Description     *string    `json:"description,omitempty"`
	DurationSeconds int64      `json:"duration_seconds" validate:"required,gt=0"`
	Date            time.Time  `json:"date" validate:"required"`
	Billable        *bool      `json:"billable,omitempty"`
	HourlyRateCents *int64     `json:"hourly_rate_cents,omitempty" validate:"omitempty,gt=0"`
}

// UpdateTimeEntryRequest is the typed partial update for a time entry.
type UpdateTimeEntryRequest struct {
	TaskID          *uuid.UUID `json:"task_id,omitempty"`
	Description     *string    `json:"description,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty" validate:"omitempty,gt=0"`
	Date            *time.Time `json:"date,omitempty"`
	Billable        *bool      `json:"billable,omitempty"`
	HourlyRateCents *int64     `json:"hourly_rate_cents,omitempty" validate:"omitempty,gt=0"`
}

// CreateTimeEntry logs a new time entry for the authenticated user.
// POST /api/v1/time-entries
func (h *ApplicationHandler) CreateTimeEntry(c *fiber.Ctx) error {
	var payload CreateTimeEntryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse time entry JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	if _, err := h.Store.Project(payload.ProjectID); err != nil {
		return utils.RespondWithAppError(c, err)
	}
	if payload.TaskID != nil {
		task, err := h.Store.Task(*payload.TaskID)
		if err != nil {
			return utils.RespondWithAppError(c, err)
		}
		if task.ProjectID != payload.ProjectID {
			return utils.RespondWithError(c, fiber.StatusUnprocessableEntity, "Task does not belong to the given project")
		}
	}

	billable := true
	if payload.Billable != nil {
		billable = *payload.Billable
	}

	identity := middleware.Identity(c)
	now := time.Now()
	entry := models.TimeEntry{
		ID:              uuid.New(),
		UserID:          identity.ID,
		ProjectID:       payload.ProjectID,
		TaskID:          payload.TaskID,
		Description:     payload.Description,
		DurationSeconds: payload.DurationSeconds,
		Date:            payload.Date,
		Billable:        billable,
		HourlyRateCents: payload.HourlyRateCents,
		Invoiced:        false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := h.Store.InsertTimeEntry(entry)
	if err != nil {
		h.Logger.Errorf("Error creating time entry: %v", err)
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, created)
}

// GetTimeEntries lists time entries, optionally filtered to a date range
// via ?startDate=RFC3339&endDate=RFC3339.
// GET /api/v1/time-entries
func (h *ApplicationHandler) GetTimeEntries(c *fiber.Ctx) error {
	startParam := c.Query("startDate")
	endParam := c.Query("endDate")
	if startParam == "" && endParam == "" {
		entries, err := h.Store.TimeEntriesInRange(time.Time{}, time.Now().Add(24*time.Hour))
		if err != nil {
			return utils.RespondWithAppError(c, err)
		}
		return utils.RespondWithJSON(c, fiber.StatusOK, entries)
	}

	start, err := time.Parse(time.RFC3339, startParam)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid startDate, expected RFC3339")
	}
	end, err := time.Parse(time.RFC3339, endParam)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid endDate, expected RFC3339")
	}
	if end.Before(start) {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "endDate must not precede startDate")
	}

	entries, err := h.Store.TimeEntriesInRange(start, end)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, entries)
}

// UpdateTimeEntry partially updates a time entry. Invoiced entries are
// frozen.
// PATCH /api/v1/time-entries/:id
func (h *ApplicationHandler) UpdateTimeEntry(c *fiber.Ctx) error {
	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid time entry ID format")
	}

	entry, err := h.Store.TimeEntry(entryID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	if err := timelog.EnsureMutable(*entry); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	var payload UpdateTimeEntryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	fields := make(map[string]interface{})
	if payload.TaskID != nil {
		task, err := h.Store.Task(*payload.TaskID)
		if err != nil {
			return utils.RespondWithAppError(c, err)
		}
		if task.ProjectID != entry.ProjectID {
			return utils.RespondWithError(c, fiber.StatusUnprocessableEntity, "Task does not belong to the entry's project")
		}
		fields["task_id"] = *payload.TaskID
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.DurationSeconds != nil {
		fields["duration_seconds"] = *payload.DurationSeconds
	}
	if payload.Date != nil {
		fields["date"] = *payload.Date
	}
	if payload.Billable != nil {
		fields["billable"] = *payload.Billable
	}
	if payload.HourlyRateCents != nil {
		fields["hourly_rate_cents"] = *payload.HourlyRateCents
	}

	updated, err := h.Store.UpdateTimeEntry(entryID, fields)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, updated)
}

// DeleteTimeEntry deletes a time entry unless it has been invoiced.
// DELETE /api/v1/time-entries/:id
func (h *ApplicationHandler) DeleteTimeEntry(c *fiber.Ctx) error {
	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid time entry ID format")
	}

	entry, err := h.Store.TimeEntry(entryID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	if err := timelog.EnsureMutable(*entry); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	if _, err := h.Store.DeleteTimeEntry(entryID); err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTimeReport aggregates unbilled billable time over a date range,
// grouped by ?groupBy=project|client|date.
// GET /api/v1/time-entries/report
func (h *ApplicationHandler) GetTimeReport(c *fiber.Ctx) error {
	groupBy := timelog.GroupBy(c.Query("groupBy", string(timelog.ByProject)))
	if !groupBy.Valid() {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "groupBy must be project, client or date")
	}

	start, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid startDate, expected RFC3339")
	}
	end, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid endDate, expected RFC3339")
	}
	if end.Before(start) {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "endDate must not precede startDate")
	}

	entries, err := h.Store.TimeEntriesInRange(start, end)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}

	opts := timelog.AggregateOptions{DefaultRateCents: config.HourlyRateCents()}
	if groupBy == timelog.ByClient {
		projects, err := h.Store.Projects()
		if err != nil {
			return utils.RespondWithAppError(c, err)
		}
		opts.ClientForProject = make(map[uuid.UUID]uuid.UUID, len(projects))
		for _, p := range projects {
			opts.ClientForProject[p.ID] = p.ClientID
		}
	}

	groups, err := timelog.Aggregate(entries, groupBy, opts)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, groups)
}
