package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry represents logged work, created by stopping a timer or by
// manual entry. DurationSeconds must be positive. HourlyRateCents is the
// rate in minor units; nil means the studio default applies. Once Invoiced
// is set the entry is frozen and excluded from future invoice drafts.
type TimeEntry struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	ProjectID       uuid.UUID  `json:"project_id"`
	TaskID          *uuid.UUID `json:"task_id,omitempty"` // Nullable foreign key
	Description     *string    `json:"description,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Date            time.Time  `json:"date"`
	Billable        bool       `json:"billable"`
	HourlyRateCents *int64     `json:"hourly_rate_cents,omitempty"` // Nullable BIGINT
	Invoiced        bool       `json:"invoiced"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Hours converts the entry duration to hours.
func (e TimeEntry) Hours() float64 {
	return float64(e.DurationSeconds) / 3600
}
