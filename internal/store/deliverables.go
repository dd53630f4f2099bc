package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"craftmotion/studio-api/models"
)

// Deliverable fetches a deliverable by id.
func (s *Store) Deliverable(id uuid.UUID) (*models.Deliverable, error) {
	body, _, err := s.db.From(tableDeliverables).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching deliverable %s: %w", id, err)
	}
	return decodeOne[models.Deliverable](body, "deliverable")
}

// DeliverablesForProject lists a project's deliverables, newest first.
func (s *Store) DeliverablesForProject(projectID uuid.UUID) ([]models.Deliverable, error) {
	body, _, err := s.db.From(tableDeliverables).
		Select("*", "", false).
		Eq("project_id", projectID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching deliverables for project %s: %w", projectID, err)
	}
	return decodeRows[models.Deliverable](body)
}

// InsertDeliverable persists a new deliverable and returns the stored row.
func (s *Store) InsertDeliverable(d models.Deliverable) (*models.Deliverable, error) {
	body, _, err := s.db.From(tableDeliverables).
		Insert(d, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting deliverable: %w", err)
	}
	return decodeOne[models.Deliverable](body, "deliverable")
}

// UpdateDeliverableIf applies fields to a deliverable only while its status
// and version still match the values read. Keying on version as well as
// status keeps interleaved uploads from both claiming the same version
// number when neither changes the status. The returned count is 0 when
// another request won the race; the review service re-reads and retries.
func (s *Store) UpdateDeliverableIf(id uuid.UUID, expectedStatus models.DeliverableStatus, expectedVersion int, fields map[string]interface{}) (int64, error) {
	fields["updated_at"] = time.Now()
	_, count, err := s.db.From(tableDeliverables).
		Update(fields, "minimal", "exact").
		Eq("id", id.String()).
		Eq("status", string(expectedStatus)).
		Eq("version", fmt.Sprintf("%d", expectedVersion)).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("updating deliverable %s: %w", id, err)
	}
	return count, nil
}

// InsertVersion persists an immutable deliverable version snapshot.
func (s *Store) InsertVersion(v models.DeliverableVersion) (*models.DeliverableVersion, error) {
	body, _, err := s.db.From(tableVersions).
		Insert(v, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting deliverable version: %w", err)
	}
	return decodeOne[models.DeliverableVersion](body, "deliverable version")
}

// VersionsForDeliverable lists version history, newest first.
func (s *Store) VersionsForDeliverable(deliverableID uuid.UUID) ([]models.DeliverableVersion, error) {
	body, _, err := s.db.From(tableVersions).
		Select("*", "", false).
		Eq("deliverable_id", deliverableID.String()).
		Order("version_number", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching versions for deliverable %s: %w", deliverableID, err)
	}
	return decodeRows[models.DeliverableVersion](body)
}
