package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"craftmotion/studio-api/config"
	"craftmotion/studio-api/internal/review"
	"craftmotion/studio-api/models"
	"craftmotion/studio-api/utils"
)

// deliverableBucket is the storage bucket holding uploaded cuts.
const deliverableBucket = "deliverables"

// CreateDeliverableRequest defines the body for creating a deliverable.
type CreateDeliverableRequest struct {
	Name            string   `json:"name" validate:"required"`
	Description     *string  `json:"description,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty" validate:"omitempty,gt=0"`
}

// ClientSummary is the embedded owner shown on a deliverable detail.
type ClientSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ProjectSummary is the embedded project shown on a deliverable detail.
type ProjectSummary struct {
	ID     uuid.UUID            `json:"id"`
	Name   string               `json:"name"`
	Status models.ProjectStatus `json:"status"`
	Client ClientSummary        `json:"client"`
}

// DeliverableDetail is a deliverable enriched with its project and client.
type DeliverableDetail struct {
	models.Deliverable
	Project ProjectSummary `json:"project"`
}

// ReviewNotesRequest carries optional notes on a review decision.
type ReviewNotesRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// RequestChangesRequest carries the mandatory change notes.
type RequestChangesRequest struct {
	Notes string `json:"notes" validate:"required"`
}

// CreateDeliverable creates a deliverable in DRAFT within a project.
// Version stays 0 until the first upload assigns number 1.
// POST /api/v1/projects/:id/deliverables
func (h *ApplicationHandler) CreateDeliverable(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid project ID format")
	}

	var payload CreateDeliverableRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse deliverable JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	if _, err := h.Store.Project(projectID); err != nil {
		return utils.RespondWithAppError(c, err)
	}

	now := time.Now()
	deliverable := models.Deliverable{
		ID:              uuid.New(),
		ProjectID:       projectID,
		Name:            payload.Name,
		Description:     payload.Description,
		Status:          models.DeliverableDraft,
		Version:         0,
		DurationSeconds: payload.DurationSeconds,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := h.Store.InsertDeliverable(deliverable)
	if err != nil {
		h.Logger.Errorf("Error creating deliverable: %v", err)
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, created)
}

// GetProjectDeliverables lists a project's deliverables.
// GET /api/v1/projects/:id/deliverables
func (h *ApplicationHandler) GetProjectDeliverables(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid project ID format")
	}
	deliverables, err := h.Store.DeliverablesForProject(projectID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, deliverables)
}

// GetDeliverable retrieves a deliverable with its project and client
// embedded, the shape the review page renders from.
// GET /api/v1/deliverables/:id
func (h *ApplicationHandler) GetDeliverable(c *fiber.Ctx) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}

	deliverable, err := h.Store.Deliverable(deliverableID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	project, err := h.Store.Project(deliverable.ProjectID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	client, err := h.Store.Client(project.ClientID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, DeliverableDetail{
		Deliverable: *deliverable,
		Project: ProjectSummary{
			ID:     project.ID,
			Name:   project.Name,
			Status: project.Status,
			Client: ClientSummary{ID: client.ID, Name: client.Name, Email: client.Email},
		},
	})
}

// GetDeliverableVersions lists the version history, newest first.
// GET /api/v1/deliverables/:id/versions
func (h *ApplicationHandler) GetDeliverableVersions(c *fiber.Ctx) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}
	versions, err := h.Review.Versions(deliverableID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, versions)
}

// UploadDeliverableVersion accepts a multipart cut upload, pushes the file
// to storage through the gateway to avoid CORS issues, and records a new
// immutable version.
// POST /api/v1/deliverables/:id/versions
func (h *ApplicationHandler) UploadDeliverableVersion(c *fiber.Ctx) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}

	deliverable, err := h.Store.Deliverable(deliverableID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Missing file in multipart form")
	}

	fileHandle, err := file.Open()
	if err != nil {
		h.Logger.Errorf("Error opening uploaded file: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not read uploaded file")
	}
	defer fileHandle.Close()

	fileContent, err := io.ReadAll(fileHandle)
	if err != nil {
		h.Logger.Errorf("Error reading uploaded file: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not read uploaded file")
	}

	storagePath := fmt.Sprintf("%s/v%d/%s", deliverable.ID, deliverable.Version+1, file.Filename)
	if err := h.uploadToStorage(storagePath, file.Header.Get("Content-Type"), fileContent); err != nil {
		h.Logger.Errorf("Error uploading version to storage: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Upload to storage failed")
	}

	params := review.VersionParams{
		FileURL: fmt.Sprintf("%s/storage/v1/object/public/%s/%s", config.GetSupabaseURL(), deliverableBucket, storagePath),
	}
	if notes := c.FormValue("notes"); notes != "" {
		params.Notes = &notes
	}
	if thumb := c.FormValue("thumbnail_url"); thumb != "" {
		params.ThumbnailURL = &thumb
	}

	updated, version, err := h.Review.AddVersion(deliverableID, params)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}

	h.Logger.Infof("Uploaded version %d for deliverable %s", version.VersionNumber, deliverableID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{
		"deliverable": updated,
		"version":     version,
	})
}

// uploadToStorage pushes bytes into the deliverables bucket.
func (h *ApplicationHandler) uploadToStorage(storagePath, contentType string, content []byte) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", config.GetSupabaseURL(), deliverableBucket, storagePath)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(content))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+config.GetSupabaseKey())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage upload failed with status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// SubmitDeliverableForReview moves a deliverable into IN_REVIEW.
// POST /api/v1/deliverables/:id/submit-review
func (h *ApplicationHandler) SubmitDeliverableForReview(c *fiber.Ctx) error {
	return h.reviewAction(c, func(id uuid.UUID) (*models.Deliverable, error) {
		return h.Review.SubmitForReview(id)
	})
}

// ApproveDeliverable approves a deliverable, with optional notes.
// POST /api/v1/deliverables/:id/approve
func (h *ApplicationHandler) ApproveDeliverable(c *fiber.Ctx) error {
	var payload ReviewNotesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	return h.reviewAction(c, func(id uuid.UUID) (*models.Deliverable, error) {
		return h.Review.Approve(id, payload.Notes)
	})
}

// RequestDeliverableChanges rejects the current cut; notes are mandatory.
// POST /api/v1/deliverables/:id/request-changes
func (h *ApplicationHandler) RequestDeliverableChanges(c *fiber.Ctx) error {
	var payload RequestChangesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Change request notes are required")
	}
	return h.reviewAction(c, func(id uuid.UUID) (*models.Deliverable, error) {
		return h.Review.RequestChanges(id, payload.Notes)
	})
}

// ReopenDeliverable reopens an approved deliverable for further work.
// POST /api/v1/deliverables/:id/reopen
func (h *ApplicationHandler) ReopenDeliverable(c *fiber.Ctx) error {
	return h.reviewAction(c, func(id uuid.UUID) (*models.Deliverable, error) {
		return h.Review.Reopen(id)
	})
}

// DeliverDeliverable marks an approved deliverable as delivered.
// POST /api/v1/deliverables/:id/deliver
func (h *ApplicationHandler) DeliverDeliverable(c *fiber.Ctx) error {
	return h.reviewAction(c, func(id uuid.UUID) (*models.Deliverable, error) {
		return h.Review.Deliver(id)
	})
}

func (h *ApplicationHandler) reviewAction(c *fiber.Ctx, action func(uuid.UUID) (*models.Deliverable, error)) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}
	deliverable, err := action(deliverableID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, deliverable)
}
