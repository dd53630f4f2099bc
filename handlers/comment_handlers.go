package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"craftmotion/studio-api/internal/comments"
	"craftmotion/studio-api/internal/session"
	"craftmotion/studio-api/middleware"
	"craftmotion/studio-api/models"
	"craftmotion/studio-api/utils"
)

// CreateCommentRequest defines the body for posting a timeline comment.
// ParentID present makes it a reply; timestamp is then ignored.
type CreateCommentRequest struct {
	Content   string     `json:"content" validate:"required"`
	Timestamp float64    `json:"timestamp"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
}

// ResolveCommentRequest toggles a comment's resolved flag.
type ResolveCommentRequest struct {
	Resolved bool `json:"resolved"`
}

// commentActor maps the session identity to a comment actor. Admin tokens
// act as team members, portal tokens as clients.
func commentActor(c *fiber.Ctx) comments.Actor {
	identity := middleware.Identity(c)
	authorType := models.AuthorClient
	if identity.Role == session.RoleAdmin {
		authorType = models.AuthorUser
	}
	return comments.Actor{ID: identity.ID, Type: authorType}
}

// CreateComment posts a comment or reply on a deliverable's timeline.
// POST /api/v1/deliverables/:id/timeline-comments
func (h *ApplicationHandler) CreateComment(c *fiber.Ctx) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}

	var payload CreateCommentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse comment JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Comment content is required")
	}

	actor := commentActor(c)
	comment, err := h.Comments.Add(comments.AddParams{
		DeliverableID: deliverableID,
		AuthorID:      actor.ID,
		AuthorType:    actor.Type,
		Content:       payload.Content,
		Timestamp:     payload.Timestamp,
		ParentID:      payload.ParentID,
	})
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, comment)
}

// GetComments lists a deliverable's comments as threads, roots ordered by
// timeline position.
// GET /api/v1/deliverables/:id/timeline-comments
func (h *ApplicationHandler) GetComments(c *fiber.Ctx) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}
	threads, err := h.Comments.List(deliverableID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, threads)
}

// GetCommentMarkers returns normalized scrubber positions for a
// deliverable's root comments.
// GET /api/v1/deliverables/:id/timeline-comments/markers
func (h *ApplicationHandler) GetCommentMarkers(c *fiber.Ctx) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}

	deliverable, err := h.Store.Deliverable(deliverableID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	all, err := h.Store.CommentsForDeliverable(deliverableID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}

	var duration float64
	if deliverable.DurationSeconds != nil {
		duration = *deliverable.DurationSeconds
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, comments.Markers(all, duration))
}

// ResolveComment sets or clears the resolved flag on a comment, subject to
// the resolution policy.
// PATCH /api/v1/deliverables/:id/timeline-comments/:commentId
func (h *ApplicationHandler) ResolveComment(c *fiber.Ctx) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid comment ID format")
	}

	var payload ResolveCommentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	comment, err := h.Comments.Resolve(deliverableID, commentID, payload.Resolved, commentActor(c))
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, comment)
}

// DeleteComment deletes a comment; deleting a root removes its whole
// thread.
// DELETE /api/v1/deliverables/:id/timeline-comments/:commentId
func (h *ApplicationHandler) DeleteComment(c *fiber.Ctx) error {
	deliverableID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid deliverable ID format")
	}
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid comment ID format")
	}

	deleted, err := h.Comments.Delete(deliverableID, commentID, commentActor(c))
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": deleted})
}
