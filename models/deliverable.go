package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliverableStatus is the review lifecycle of a deliverable. Transitions
// are owned by the review service; nothing else should write Status.
type DeliverableStatus string

const (
	DeliverableDraft      DeliverableStatus = "DRAFT"
	DeliverablePending    DeliverableStatus = "PENDING"
	DeliverableInProgress DeliverableStatus = "IN_PROGRESS"
	DeliverableInReview   DeliverableStatus = "IN_REVIEW"
	DeliverableApproved   DeliverableStatus = "APPROVED"
	DeliverableRejected   DeliverableStatus = "REJECTED"
	DeliverableDelivered  DeliverableStatus = "DELIVERED"
)

// Valid reports whether s is one of the known deliverable statuses.
func (s DeliverableStatus) Valid() bool {
	switch s {
	case DeliverableDraft, DeliverablePending, DeliverableInProgress,
		DeliverableInReview, DeliverableApproved, DeliverableRejected,
		DeliverableDelivered:
		return true
	}
	return false
}

// Terminal reports whether the status accepts no further client review
// actions.
func (s DeliverableStatus) Terminal() bool {
	return s == DeliverableApproved || s == DeliverableDelivered
}

// Deliverable represents a reviewable work product (typically a video cut)
// tied to a project. Version points at the latest DeliverableVersion and is
// 0 until the first upload; uploaded version numbers start at 1.
// DurationSeconds is the runtime of the current cut and bounds timeline
// comment timestamps when known.
type Deliverable struct {
	ID              uuid.UUID         `json:"id"`
	ProjectID       uuid.UUID         `json:"project_id"`
	Name            string            `json:"name"`
	Description     *string           `json:"description,omitempty"` // Nullable TEXT
	Status          DeliverableStatus `json:"status"`
	Version         int               `json:"version"`
	FileURL         *string           `json:"file_url,omitempty"`         // Nullable TEXT
	ThumbnailURL    *string           `json:"thumbnail_url,omitempty"`    // Nullable TEXT
	DurationSeconds *float64          `json:"duration_seconds,omitempty"` // Nullable FLOAT
	ReviewNotes     *string           `json:"review_notes,omitempty"`     // Nullable TEXT
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// DeliverableVersion is an immutable snapshot of a deliverable file.
// Superseded versions are retained for comparison.
type DeliverableVersion struct {
	ID            uuid.UUID `json:"id"`
	DeliverableID uuid.UUID `json:"deliverable_id"`
	VersionNumber int       `json:"version_number"`
	FileURL       string    `json:"file_url"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"` // Nullable TEXT
	Notes         *string   `json:"notes,omitempty"`         // Nullable TEXT
	CreatedAt     time.Time `json:"created_at"`
}
