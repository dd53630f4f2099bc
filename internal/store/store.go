// Package store is the PostgREST-backed persistence layer. Each entity gets
// a small set of methods shaped around what the domain services need; the
// services declare their own narrow interfaces and this type satisfies all
// of them.
package store

import (
	"encoding/json"
	"fmt"
	"strings"

	supa "github.com/supabase-community/supabase-go"

	"craftmotion/studio-api/internal/apperr"
)

// Table names in the studio database.
const (
	tableClients      = "clients"
	tableUsers        = "users"
	tableProjects     = "projects"
	tableTasks        = "tasks"
	tableTimeEntries  = "time_entries"
	tableDeliverables = "deliverables"
	tableVersions     = "deliverable_versions"
	tableComments     = "timeline_comments"
	tableInvoices     = "invoices"
	tableSettings     = "invoice_settings"
)

// Store wraps the Supabase client.
type Store struct {
	db *supa.Client
}

// New creates a store over an initialized Supabase client.
func New(db *supa.Client) *Store {
	return &Store{db: db}
}

// decodeRows unmarshals a PostgREST response body into a slice.
func decodeRows[T any](body []byte) ([]T, error) {
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	return rows, nil
}

// decodeOne unmarshals a PostgREST response and requires exactly one row,
// returning a NotFound error for the named entity otherwise.
func decodeOne[T any](body []byte, entity string) (*T, error) {
	rows, err := decodeRows[T](body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.New(apperr.NotFound, "%s not found", entity)
	}
	return &rows[0], nil
}

// isUniqueViolation reports whether a PostgREST error is a unique
// constraint failure (Postgres code 23505).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
