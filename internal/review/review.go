// Package review owns the deliverable lifecycle: DRAFT/PENDING ->
// IN_PROGRESS -> IN_REVIEW -> APPROVED or REJECTED, REJECTED back to
// IN_PROGRESS when work resumes, and DELIVERED as the terminal handoff.
//
// Every transition is a compare-and-set against the status the caller just
// read, so two simultaneous client actions cannot both land: the loser
// re-reads and either finds the action now invalid or, after a few
// attempts, reports a conflict.
package review

import (
	"strings"

	"github.com/google/uuid"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

// maxAttempts bounds the re-read/re-attempt loop on lost races.
const maxAttempts = 3

// Store is the persistence the state machine needs.
type Store interface {
	Deliverable(id uuid.UUID) (*models.Deliverable, error)
	UpdateDeliverableIf(id uuid.UUID, expectedStatus models.DeliverableStatus, expectedVersion int, fields map[string]interface{}) (int64, error)
	InsertVersion(v models.DeliverableVersion) (*models.DeliverableVersion, error)
	VersionsForDeliverable(deliverableID uuid.UUID) ([]models.DeliverableVersion, error)
}

// Service runs deliverable review transitions.
type Service struct {
	store Store
}

// NewService creates a review service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// reviewable reports whether a client may still act on the status: any
// non-terminal state accepts approve/request-changes.
func reviewable(s models.DeliverableStatus) bool {
	return !s.Terminal()
}

// SubmitForReview moves a deliverable in front of the client. Admin-only;
// valid from DRAFT, PENDING, IN_PROGRESS and REJECTED.
func (s *Service) SubmitForReview(id uuid.UUID) (*models.Deliverable, error) {
	return s.transition(id, func(current models.DeliverableStatus) (map[string]interface{}, error) {
		switch current {
		case models.DeliverableDraft, models.DeliverablePending,
			models.DeliverableInProgress, models.DeliverableRejected:
			return map[string]interface{}{"status": string(models.DeliverableInReview)}, nil
		case models.DeliverableInReview:
			return nil, apperr.New(apperr.InvalidTransition, "deliverable is already in review")
		default:
			return nil, apperr.New(apperr.InvalidTransition, "cannot submit a %s deliverable for review", current)
		}
	})
}

// Approve records client sign-off. Valid from any non-terminal state;
// a second approve attempt fails with AlreadyFinalized rather than writing
// a duplicate approval.
func (s *Service) Approve(id uuid.UUID, notes *string) (*models.Deliverable, error) {
	return s.transition(id, func(current models.DeliverableStatus) (map[string]interface{}, error) {
		if current.Terminal() {
			return nil, apperr.New(apperr.AlreadyFinalized, "deliverable is already %s", current)
		}
		fields := map[string]interface{}{"status": string(models.DeliverableApproved)}
		if notes != nil && strings.TrimSpace(*notes) != "" {
			fields["review_notes"] = strings.TrimSpace(*notes)
		}
		return fields, nil
	})
}

// RequestChanges records client rejection with mandatory notes.
func (s *Service) RequestChanges(id uuid.UUID, notes string) (*models.Deliverable, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperr.New(apperr.Validation, "change request notes must not be empty")
	}
	return s.transition(id, func(current models.DeliverableStatus) (map[string]interface{}, error) {
		if current.Terminal() {
			return nil, apperr.New(apperr.AlreadyFinalized, "deliverable is already %s", current)
		}
		return map[string]interface{}{
			"status":       string(models.DeliverableRejected),
			"review_notes": notes,
		}, nil
	})
}

// Reopen resumes work on a rejected deliverable.
func (s *Service) Reopen(id uuid.UUID) (*models.Deliverable, error) {
	return s.transition(id, func(current models.DeliverableStatus) (map[string]interface{}, error) {
		if current != models.DeliverableRejected {
			return nil, apperr.New(apperr.InvalidTransition, "only rejected deliverables can be reopened, this one is %s", current)
		}
		return map[string]interface{}{"status": string(models.DeliverableInProgress)}, nil
	})
}

// Deliver marks the final handoff after client approval.
func (s *Service) Deliver(id uuid.UUID) (*models.Deliverable, error) {
	return s.transition(id, func(current models.DeliverableStatus) (map[string]interface{}, error) {
		switch current {
		case models.DeliverableApproved:
			return map[string]interface{}{"status": string(models.DeliverableDelivered)}, nil
		case models.DeliverableDelivered:
			return nil, apperr.New(apperr.AlreadyFinalized, "deliverable is already delivered")
		default:
			return nil, apperr.New(apperr.InvalidTransition, "cannot deliver a %s deliverable", current)
		}
	})
}

// VersionParams describe a newly uploaded cut.
type VersionParams struct {
	FileURL         string
	ThumbnailURL    *string
	Notes           *string
	DurationSeconds *float64
}

// AddVersion stores an immutable version snapshot and advances the
// deliverable's version pointer. Prior versions are never deleted. A new
// version on a REJECTED deliverable resets the review cycle to
// IN_PROGRESS; re-entering IN_REVIEW stays an explicit admin step.
func (s *Service) AddVersion(id uuid.UUID, p VersionParams) (*models.Deliverable, *models.DeliverableVersion, error) {
	if strings.TrimSpace(p.FileURL) == "" {
		return nil, nil, apperr.New(apperr.Validation, "version file URL must not be empty")
	}

	var version *models.DeliverableVersion
	deliverable, err := s.transitionFull(id, func(d *models.Deliverable) (map[string]interface{}, error) {
		if d.Status == models.DeliverableDelivered {
			return nil, apperr.New(apperr.AlreadyFinalized, "deliverable is already delivered")
		}
		fields := map[string]interface{}{
			"version":  d.Version + 1,
			"file_url": p.FileURL,
		}
		if p.ThumbnailURL != nil {
			fields["thumbnail_url"] = *p.ThumbnailURL
		}
		if p.DurationSeconds != nil {
			fields["duration_seconds"] = *p.DurationSeconds
		}
		if d.Status == models.DeliverableRejected {
			fields["status"] = string(models.DeliverableInProgress)
		}
		return fields, nil
	})
	if err != nil {
		return nil, nil, err
	}

	version, err = s.store.InsertVersion(models.DeliverableVersion{
		ID:            uuid.New(),
		DeliverableID: deliverable.ID,
		VersionNumber: deliverable.Version,
		FileURL:       p.FileURL,
		ThumbnailURL:  p.ThumbnailURL,
		Notes:         p.Notes,
	})
	if err != nil {
		return nil, nil, err
	}
	return deliverable, version, nil
}

// Versions lists the full version history, newest first.
func (s *Service) Versions(deliverableID uuid.UUID) ([]models.DeliverableVersion, error) {
	if _, err := s.store.Deliverable(deliverableID); err != nil {
		return nil, err
	}
	return s.store.VersionsForDeliverable(deliverableID)
}

// transition runs the read / decide / conditional-write loop for actions
// that only need the current status to decide.
func (s *Service) transition(id uuid.UUID, decide func(models.DeliverableStatus) (map[string]interface{}, error)) (*models.Deliverable, error) {
	return s.transitionFull(id, func(d *models.Deliverable) (map[string]interface{}, error) {
		return decide(d.Status)
	})
}

func (s *Service) transitionFull(id uuid.UUID, decide func(*models.Deliverable) (map[string]interface{}, error)) (*models.Deliverable, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		deliverable, err := s.store.Deliverable(id)
		if err != nil {
			return nil, err
		}
		fields, err := decide(deliverable)
		if err != nil {
			return nil, err
		}
		count, err := s.store.UpdateDeliverableIf(id, deliverable.Status, deliverable.Version, fields)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return s.store.Deliverable(id)
		}
		// Lost the race: someone changed the status or version between our
		// read and write. Re-read and re-decide.
	}
	return nil, apperr.New(apperr.Conflict, "deliverable changed concurrently, please retry")
}
