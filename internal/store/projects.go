package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

// Project fetches a project by id.
func (s *Store) Project(id uuid.UUID) (*models.Project, error) {
	body, _, err := s.db.From(tableProjects).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching project %s: %w", id, err)
	}
	return decodeOne[models.Project](body, "project")
}

// Projects lists all projects, newest first.
func (s *Store) Projects() ([]models.Project, error) {
	body, _, err := s.db.From(tableProjects).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}
	return decodeRows[models.Project](body)
}

// ProjectsForClient lists the projects a client owns.
func (s *Store) ProjectsForClient(clientID uuid.UUID) ([]models.Project, error) {
	body, _, err := s.db.From(tableProjects).
		Select("*", "", false).
		Eq("client_id", clientID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching projects for client %s: %w", clientID, err)
	}
	return decodeRows[models.Project](body)
}

// InsertProject persists a new project and returns the stored row.
func (s *Store) InsertProject(p models.Project) (*models.Project, error) {
	body, _, err := s.db.From(tableProjects).
		Insert(p, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting project: %w", err)
	}
	return decodeOne[models.Project](body, "project")
}

// UpdateProject applies a partial update and returns the updated row.
func (s *Store) UpdateProject(id uuid.UUID, fields map[string]interface{}) (*models.Project, error) {
	fields["updated_at"] = time.Now()
	body, _, err := s.db.From(tableProjects).
		Update(fields, "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating project %s: %w", id, err)
	}
	return decodeOne[models.Project](body, "project")
}

// DeleteProject removes a project.
func (s *Store) DeleteProject(id uuid.UUID) error {
	_, count, err := s.db.From(tableProjects).
		Delete("minimal", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	if count == 0 {
		return apperr.New(apperr.NotFound, "project not found")
	}
	return nil
}
