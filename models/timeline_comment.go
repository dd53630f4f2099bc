package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthorType distinguishes portal clients from studio team members.
type AuthorType string

const (
	AuthorClient AuthorType = "CLIENT"
	AuthorUser   AuthorType = "USER"
)

// TimelineComment is a piece of feedback anchored to a point in a
// deliverable's video timeline. Root comments (ParentID nil) carry the
// timestamp; replies hang off a root and inherit its position for display.
// Threading is one level deep: a reply can never be a parent.
type TimelineComment struct {
	ID            uuid.UUID  `json:"id"`
	DeliverableID uuid.UUID  `json:"deliverable_id"`
	Content       string     `json:"content"`
	Timestamp     float64    `json:"timestamp"` // Seconds into the video
	AuthorID      uuid.UUID  `json:"author_id"`
	AuthorType    AuthorType `json:"author_type"`
	Resolved      bool       `json:"resolved"`
	ParentID      *uuid.UUID `json:"parent_id,omitempty"` // Nullable self-reference
	CreatedAt     time.Time  `json:"created_at"`
}

// IsRoot reports whether the comment is anchored directly on the timeline.
func (c TimelineComment) IsRoot() bool {
	return c.ParentID == nil
}
