package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskCategory is the production phase a task belongs to.
type TaskCategory string

const (
	CategoryPreProduction  TaskCategory = "PRE_PRODUCTION"
	CategoryShooting       TaskCategory = "SHOOTING"
	CategoryEditing        TaskCategory = "EDITING"
	CategoryMotionGraphics TaskCategory = "MOTION_GRAPHICS"
	CategoryColor          TaskCategory = "COLOR"
	CategorySound          TaskCategory = "SOUND"
	CategoryVFX            TaskCategory = "VFX"
	CategoryDelivery       TaskCategory = "DELIVERY"
	CategoryRevision       TaskCategory = "REVISION"
	CategoryOther          TaskCategory = "OTHER"
)

// Valid reports whether c is one of the known production phases.
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryPreProduction, CategoryShooting, CategoryEditing,
		CategoryMotionGraphics, CategoryColor, CategorySound,
		CategoryVFX, CategoryDelivery, CategoryRevision, CategoryOther:
		return true
	}
	return false
}

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskDone       TaskStatus = "DONE"
	TaskBlocked    TaskStatus = "BLOCKED"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone, TaskBlocked:
		return true
	}
	return false
}

// Task represents a unit of production work inside a project.
// Actual hours are never stored on the task row; they are recomputed from
// the time entries that reference the task (see timelog.TaskProgress).
type Task struct {
	ID             uuid.UUID    `json:"id"`
	ProjectID      uuid.UUID    `json:"project_id"`
	Name           string       `json:"name"`
	Description    *string      `json:"description,omitempty"` // Nullable TEXT
	Category       TaskCategory `json:"category"`
	Status         TaskStatus   `json:"status"`
	EstimatedHours *float64     `json:"estimated_hours,omitempty"` // Nullable FLOAT
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
