package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

// Task fetches a task by id.
func (s *Store) Task(id uuid.UUID) (*models.Task, error) {
	body, _, err := s.db.From(tableTasks).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching task %s: %w", id, err)
	}
	return decodeOne[models.Task](body, "task")
}

// TasksForProject lists a project's tasks oldest first.
func (s *Store) TasksForProject(projectID uuid.UUID) ([]models.Task, error) {
	body, _, err := s.db.From(tableTasks).
		Select("*", "", false).
		Eq("project_id", projectID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching tasks for project %s: %w", projectID, err)
	}
	return decodeRows[models.Task](body)
}

// InsertTask persists a new task and returns the stored row.
func (s *Store) InsertTask(t models.Task) (*models.Task, error) {
	body, _, err := s.db.From(tableTasks).
		Insert(t, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}
	return decodeOne[models.Task](body, "task")
}

// UpdateTask applies a partial update and returns the updated row.
func (s *Store) UpdateTask(id uuid.UUID, fields map[string]interface{}) (*models.Task, error) {
	fields["updated_at"] = time.Now()
	body, _, err := s.db.From(tableTasks).
		Update(fields, "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	return decodeOne[models.Task](body, "task")
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id uuid.UUID) error {
	_, count, err := s.db.From(tableTasks).
		Delete("minimal", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if count == 0 {
		return apperr.New(apperr.NotFound, "task not found")
	}
	return nil
}
