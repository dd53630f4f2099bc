package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"craftmotion/studio-api/models"
)

// TimeEntry fetches a time entry by id.
func (s *Store) TimeEntry(id uuid.UUID) (*models.TimeEntry, error) {
	body, _, err := s.db.From(tableTimeEntries).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching time entry %s: %w", id, err)
	}
	return decodeOne[models.TimeEntry](body, "time entry")
}

// TimeEntriesInRange lists entries with date within [start, end], newest
// first.
func (s *Store) TimeEntriesInRange(start, end time.Time) ([]models.TimeEntry, error) {
	body, _, err := s.db.From(tableTimeEntries).
		Select("*", "", false).
		Gte("date", start.UTC().Format("2006-01-02")).
		Lte("date", end.UTC().Format("2006-01-02")).
		Order("date", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching time entries in range: %w", err)
	}
	return decodeRows[models.TimeEntry](body)
}

// TimeEntriesForProject lists every entry logged against a project.
func (s *Store) TimeEntriesForProject(projectID uuid.UUID) ([]models.TimeEntry, error) {
	body, _, err := s.db.From(tableTimeEntries).
		Select("*", "", false).
		Eq("project_id", projectID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching time entries for project %s: %w", projectID, err)
	}
	return decodeRows[models.TimeEntry](body)
}

// TimeEntriesForTask lists every entry referencing a task.
func (s *Store) TimeEntriesForTask(taskID uuid.UUID) ([]models.TimeEntry, error) {
	body, _, err := s.db.From(tableTimeEntries).
		Select("*", "", false).
		Eq("task_id", taskID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching time entries for task %s: %w", taskID, err)
	}
	return decodeRows[models.TimeEntry](body)
}

// AvailableTimeEntries lists billable, not-yet-invoiced entries for a
// project: the pool an invoice draft may draw from.
func (s *Store) AvailableTimeEntries(projectID uuid.UUID) ([]models.TimeEntry, error) {
	body, _, err := s.db.From(tableTimeEntries).
		Select("*", "", false).
		Eq("project_id", projectID.String()).
		Eq("billable", "true").
		Eq("invoiced", "false").
		Order("date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching available time entries for project %s: %w", projectID, err)
	}
	return decodeRows[models.TimeEntry](body)
}

// TimeEntriesByIDs fetches a specific selection of entries.
func (s *Store) TimeEntriesByIDs(ids []uuid.UUID) ([]models.TimeEntry, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	body, _, err := s.db.From(tableTimeEntries).
		Select("*", "", false).
		In("id", strIDs).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching time entries by ids: %w", err)
	}
	return decodeRows[models.TimeEntry](body)
}

// InsertTimeEntry persists a new entry and returns the stored row.
func (s *Store) InsertTimeEntry(e models.TimeEntry) (*models.TimeEntry, error) {
	body, _, err := s.db.From(tableTimeEntries).
		Insert(e, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting time entry: %w", err)
	}
	return decodeOne[models.TimeEntry](body, "time entry")
}

// UpdateTimeEntry applies a partial update and returns the updated row.
func (s *Store) UpdateTimeEntry(id uuid.UUID, fields map[string]interface{}) (*models.TimeEntry, error) {
	fields["updated_at"] = time.Now()
	body, _, err := s.db.From(tableTimeEntries).
		Update(fields, "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating time entry %s: %w", id, err)
	}
	return decodeOne[models.TimeEntry](body, "time entry")
}

// DeleteTimeEntry removes an entry. Returns the number of rows removed.
func (s *Store) DeleteTimeEntry(id uuid.UUID) (int64, error) {
	_, count, err := s.db.From(tableTimeEntries).
		Delete("minimal", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("deleting time entry %s: %w", id, err)
	}
	return count, nil
}

// MarkTimeEntriesInvoiced flips invoiced=true on the given entries, but
// only for rows still uninvoiced. The count lets the invoice composer
// detect that another invoice claimed an entry first.
func (s *Store) MarkTimeEntriesInvoiced(ids []uuid.UUID) (int64, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	_, count, err := s.db.From(tableTimeEntries).
		Update(map[string]interface{}{"invoiced": true, "updated_at": time.Now()}, "minimal", "exact").
		In("id", strIDs).
		Eq("invoiced", "false").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("marking time entries invoiced: %w", err)
	}
	return count, nil
}
