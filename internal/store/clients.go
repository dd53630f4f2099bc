package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

// Client fetches a client by id.
func (s *Store) Client(id uuid.UUID) (*models.Client, error) {
	body, _, err := s.db.From(tableClients).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching client %s: %w", id, err)
	}
	return decodeOne[models.Client](body, "client")
}

// ClientByEmail fetches a client by portal login email.
func (s *Store) ClientByEmail(email string) (*models.Client, error) {
	body, _, err := s.db.From(tableClients).
		Select("*", "", false).
		Eq("email", email).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching client by email: %w", err)
	}
	return decodeOne[models.Client](body, "client")
}

// Clients lists all clients alphabetically.
func (s *Store) Clients() ([]models.Client, error) {
	body, _, err := s.db.From(tableClients).
		Select("*", "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching clients: %w", err)
	}
	return decodeRows[models.Client](body)
}

// InsertClient persists a new client and returns the stored row.
func (s *Store) InsertClient(c models.Client) (*models.Client, error) {
	body, _, err := s.db.From(tableClients).
		Insert(c, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("inserting client: %w", err)
	}
	return decodeOne[models.Client](body, "client")
}

// UpdateClient applies a partial update and returns the updated row.
func (s *Store) UpdateClient(id uuid.UUID, fields map[string]interface{}) (*models.Client, error) {
	fields["updated_at"] = time.Now()
	body, _, err := s.db.From(tableClients).
		Update(fields, "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating client %s: %w", id, err)
	}
	return decodeOne[models.Client](body, "client")
}

// DeleteClient removes a client. The referential guard (no owned projects)
// belongs to the handler, which checks before calling.
func (s *Store) DeleteClient(id uuid.UUID) error {
	_, count, err := s.db.From(tableClients).
		Delete("minimal", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("deleting client %s: %w", id, err)
	}
	if count == 0 {
		return apperr.New(apperr.NotFound, "client not found")
	}
	return nil
}

// UserByEmail fetches a team member by dashboard login email.
func (s *Store) UserByEmail(email string) (*models.User, error) {
	body, _, err := s.db.From(tableUsers).
		Select("*", "", false).
		Eq("email", email).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching user by email: %w", err)
	}
	return decodeOne[models.User](body, "user")
}
