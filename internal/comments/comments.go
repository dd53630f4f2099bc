// Package comments implements the timeline comment engine: threaded,
// timestamp-anchored feedback on a deliverable, with resolution state and
// one-level reply threading.
package comments

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

// Store is the persistence the engine needs.
type Store interface {
	Deliverable(id uuid.UUID) (*models.Deliverable, error)
	Comment(id uuid.UUID) (*models.TimelineComment, error)
	InsertComment(comment models.TimelineComment) (*models.TimelineComment, error)
	SetCommentResolved(id uuid.UUID, resolved bool) (*models.TimelineComment, error)
	DeleteCommentThread(rootID uuid.UUID) (int64, error)
	DeleteComment(id uuid.UUID) (int64, error)
	CommentsForDeliverable(deliverableID uuid.UUID) ([]models.TimelineComment, error)
}

// Actor is whoever is performing a comment action.
type Actor struct {
	ID   uuid.UUID
	Type models.AuthorType
}

// Thread is a root comment with its replies, ready for presentation.
type Thread struct {
	Root    models.TimelineComment   `json:"root"`
	Replies []models.TimelineComment `json:"replies"`
}

// Marker is a root comment's normalized position on a scrubber.
type Marker struct {
	CommentID uuid.UUID `json:"comment_id"`
	Position  float64   `json:"position"` // Clamped to [0, 1]
	Resolved  bool      `json:"resolved"`
}

// Engine manages the comment log for deliverables. The authorization rules
// for resolve and delete are a Policy, not hardcoded, so studios can adjust
// who may close feedback.
type Engine struct {
	store  Store
	policy Policy
}

// NewEngine creates an engine with the given policy; nil means
// DefaultPolicy.
func NewEngine(store Store, policy *Policy) *Engine {
	p := DefaultPolicy()
	if policy != nil {
		p = *policy
	}
	return &Engine{store: store, policy: p}
}

// AddParams are the inputs to Add. ParentID nil creates a root comment
// anchored at Timestamp; otherwise Timestamp is ignored and the reply
// inherits the root's anchor.
type AddParams struct {
	DeliverableID uuid.UUID
	AuthorID      uuid.UUID
	AuthorType    models.AuthorType
	Content       string
	Timestamp     float64
	ParentID      *uuid.UUID
}

// Add validates and persists a new comment, returning it with
// resolved=false.
func (e *Engine) Add(p AddParams) (*models.TimelineComment, error) {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return nil, apperr.New(apperr.Validation, "comment content must not be empty")
	}
	if p.AuthorType != models.AuthorClient && p.AuthorType != models.AuthorUser {
		return nil, apperr.New(apperr.Validation, "unknown author type %q", p.AuthorType)
	}

	deliverable, err := e.store.Deliverable(p.DeliverableID)
	if err != nil {
		return nil, err
	}

	comment := models.TimelineComment{
		ID:            uuid.New(),
		DeliverableID: deliverable.ID,
		Content:       content,
		AuthorID:      p.AuthorID,
		AuthorType:    p.AuthorType,
		Resolved:      false,
	}

	if p.ParentID == nil {
		if p.Timestamp < 0 {
			return nil, apperr.New(apperr.Validation, "timestamp must not be negative")
		}
		if deliverable.DurationSeconds != nil && p.Timestamp > *deliverable.DurationSeconds {
			return nil, apperr.New(apperr.Validation,
				"timestamp %.2f is past the end of the video (%.2f)", p.Timestamp, *deliverable.DurationSeconds)
		}
		comment.Timestamp = p.Timestamp
	} else {
		parent, err := e.store.Comment(*p.ParentID)
		if err != nil {
			if apperr.Is(err, apperr.NotFound) {
				return nil, apperr.New(apperr.InvalidReference, "parent comment does not exist")
			}
			return nil, err
		}
		if !parent.IsRoot() {
			return nil, apperr.New(apperr.InvalidReference, "replies to replies are not allowed")
		}
		if parent.DeliverableID != deliverable.ID {
			return nil, apperr.New(apperr.InvalidReference, "parent comment belongs to a different deliverable")
		}
		comment.ParentID = &parent.ID
		// Replies sit at the root's anchor; they are not independently
		// seekable.
		comment.Timestamp = parent.Timestamp
	}

	return e.store.InsertComment(comment)
}

// Resolve sets the resolved flag. Resolving an already-resolved comment is
// a no-op that returns the same end state. The comment must belong to the
// addressed deliverable.
func (e *Engine) Resolve(deliverableID, commentID uuid.UUID, resolved bool, actor Actor) (*models.TimelineComment, error) {
	comment, err := e.commentOn(deliverableID, commentID)
	if err != nil {
		return nil, err
	}
	if !e.policy.CanResolve(actor, *comment) {
		return nil, apperr.New(apperr.Forbidden, "not allowed to change resolution of this comment")
	}
	if comment.Resolved == resolved {
		return comment, nil
	}
	return e.store.SetCommentResolved(commentID, resolved)
}

// Delete removes a comment. Deleting a root removes the whole thread in a
// single statement; deleting a reply removes only the reply. Returns the
// number of comments removed. The comment must belong to the addressed
// deliverable.
func (e *Engine) Delete(deliverableID, commentID uuid.UUID, actor Actor) (int64, error) {
	comment, err := e.commentOn(deliverableID, commentID)
	if err != nil {
		return 0, err
	}
	if !e.policy.CanDelete(actor, *comment) {
		return 0, apperr.New(apperr.Forbidden, "not allowed to delete this comment")
	}
	if comment.IsRoot() {
		return e.store.DeleteCommentThread(commentID)
	}
	return e.store.DeleteComment(commentID)
}

// commentOn fetches a comment and verifies it belongs to the deliverable
// named in the route, so a comment cannot be addressed through another
// deliverable's URL.
func (e *Engine) commentOn(deliverableID, commentID uuid.UUID) (*models.TimelineComment, error) {
	comment, err := e.store.Comment(commentID)
	if err != nil {
		return nil, err
	}
	if comment.DeliverableID != deliverableID {
		return nil, apperr.New(apperr.NotFound, "comment not found on this deliverable")
	}
	return comment, nil
}

// List returns the deliverable's comment threads: roots ordered by
// timestamp ascending, replies within each root by creation time.
func (e *Engine) List(deliverableID uuid.UUID) ([]Thread, error) {
	all, err := e.store.CommentsForDeliverable(deliverableID)
	if err != nil {
		return nil, err
	}
	return BuildThreads(all), nil
}

// BuildThreads groups a flat comment list into ordered threads. A reply
// whose root is missing is dropped rather than surfaced detached.
func BuildThreads(all []models.TimelineComment) []Thread {
	byRoot := make(map[uuid.UUID]*Thread)
	var order []uuid.UUID
	for _, c := range all {
		if c.IsRoot() {
			if _, ok := byRoot[c.ID]; !ok {
				byRoot[c.ID] = &Thread{Root: c, Replies: []models.TimelineComment{}}
				order = append(order, c.ID)
			}
		}
	}
	for _, c := range all {
		if c.IsRoot() {
			continue
		}
		if t, ok := byRoot[*c.ParentID]; ok {
			t.Replies = append(t.Replies, c)
		}
	}

	threads := make([]Thread, 0, len(order))
	for _, id := range order {
		t := byRoot[id]
		sort.SliceStable(t.Replies, func(i, j int) bool {
			return t.Replies[i].CreatedAt.Before(t.Replies[j].CreatedAt)
		})
		threads = append(threads, *t)
	}
	sort.SliceStable(threads, func(i, j int) bool {
		if threads[i].Root.Timestamp != threads[j].Root.Timestamp {
			return threads[i].Root.Timestamp < threads[j].Root.Timestamp
		}
		return threads[i].Root.CreatedAt.Before(threads[j].Root.CreatedAt)
	})
	return threads
}

// Markers maps each root comment to its normalized scrubber position:
// timestamp/duration clamped to [0, 1], with a zero or unknown duration
// pinning everything to 0.
func Markers(all []models.TimelineComment, durationSeconds float64) []Marker {
	markers := []Marker{}
	for _, c := range all {
		if !c.IsRoot() {
			continue
		}
		pos := 0.0
		if durationSeconds > 0 {
			pos = c.Timestamp / durationSeconds
			if pos < 0 {
				pos = 0
			}
			if pos > 1 {
				pos = 1
			}
		}
		markers = append(markers, Marker{CommentID: c.ID, Position: pos, Resolved: c.Resolved})
	}
	return markers
}
