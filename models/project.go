package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the admin-controlled lifecycle of a project.
type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "DRAFT"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectReview     ProjectStatus = "REVIEW"
	ProjectApproved   ProjectStatus = "APPROVED"
	ProjectCompleted  ProjectStatus = "COMPLETED"
)

// Valid reports whether s is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectDraft, ProjectInProgress, ProjectReview, ProjectApproved, ProjectCompleted:
		return true
	}
	return false
}

// Project represents a production project owned by a client.
// BudgetCents is the project budget in minor units (cents).
type Project struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"` // Nullable TEXT
	ClientID    uuid.UUID     `json:"client_id"`
	Status      ProjectStatus `json:"status"`
	BudgetCents *int64        `json:"budget_cents,omitempty"` // Nullable BIGINT
	Deadline    *time.Time    `json:"deadline,omitempty"`     // Nullable TIMESTAMPTZ
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
