package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"craftmotion/studio-api/models"
)

// Comment fetches a single timeline comment by id.
func (s *Store) Comment(id uuid.UUID) (*models.TimelineComment, error) {
	body, _, err := s.db.From(tableComments).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching comment %s: %w", id, err)
	}
	return decodeOne[models.TimelineComment](body, "comment")
}

// InsertComment persists a new comment and returns the stored row.
func (s *Store) InsertComment(comment models.TimelineComment) (*models.TimelineComment, error) {
	body, _, err := s.db.From(tableComments).
		Insert(comment, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}
	return decodeOne[models.TimelineComment](body, "comment")
}

// SetCommentResolved flips the resolved flag and returns the updated row.
func (s *Store) SetCommentResolved(id uuid.UUID, resolved bool) (*models.TimelineComment, error) {
	body, _, err := s.db.From(tableComments).
		Update(map[string]interface{}{"resolved": resolved}, "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating comment %s: %w", id, err)
	}
	return decodeOne[models.TimelineComment](body, "comment")
}

// DeleteCommentThread removes a root comment together with all its replies
// in one statement, so an interruption can never leave orphaned replies.
// Returns the number of rows removed.
func (s *Store) DeleteCommentThread(rootID uuid.UUID) (int64, error) {
	_, count, err := s.db.From(tableComments).
		Delete("minimal", "exact").
		Or(fmt.Sprintf("id.eq.%s,parent_id.eq.%s", rootID, rootID), "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("deleting comment thread %s: %w", rootID, err)
	}
	return count, nil
}

// DeleteComment removes a single comment. Returns the number of rows
// removed (0 when the comment was already gone).
func (s *Store) DeleteComment(id uuid.UUID) (int64, error) {
	_, count, err := s.db.From(tableComments).
		Delete("minimal", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("deleting comment %s: %w", id, err)
	}
	return count, nil
}

// CommentsForDeliverable returns every comment on a deliverable, roots and
// replies alike, oldest first. The comment engine groups and orders them
// for presentation.
func (s *Store) CommentsForDeliverable(deliverableID uuid.UUID) ([]models.TimelineComment, error) {
	body, _, err := s.db.From(tableComments).
		Select("*", "", false).
		Eq("deliverable_id", deliverableID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching comments for deliverable %s: %w", deliverableID, err)
	}
	return decodeRows[models.TimelineComment](body)
}
