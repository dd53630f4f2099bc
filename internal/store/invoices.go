package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

// Invoice fetches an invoice by id.
func (s *Store) Invoice(id uuid.UUID) (*models.Invoice, error) {
	body, _, err := s.db.From(tableInvoices).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching invoice %s: %w", id, err)
	}
	return decodeOne[models.Invoice](body, "invoice")
}

// Invoices lists all invoices, newest first.
func (s *Store) Invoices() ([]models.Invoice, error) {
	body, _, err := s.db.From(tableInvoices).
		Select("*", "", false).
		Order("invoice_date", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching invoices: %w", err)
	}
	return decodeRows[models.Invoice](body)
}

// InvoiceNumbers returns every persisted invoice number with the given
// prefix. The composer derives the next sequence from this scan rather
// than trusting the settings counter.
func (s *Store) InvoiceNumbers(prefix string) ([]string, error) {
	body, _, err := s.db.From(tableInvoices).
		Select("invoice_number", "", false).
		Like("invoice_number", prefix+"-%").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching invoice numbers: %w", err)
	}
	rows, err := decodeRows[struct {
		InvoiceNumber string `json:"invoice_number"`
	}](body)
	if err != nil {
		return nil, err
	}
	numbers := make([]string, len(rows))
	for i, r := range rows {
		numbers[i] = r.InvoiceNumber
	}
	return numbers, nil
}

// InsertInvoice persists a new invoice. A duplicate invoice number trips
// the DB unique constraint and comes back as a Conflict so the composer
// can recompute and retry.
func (s *Store) InsertInvoice(inv models.Invoice) (*models.Invoice, error) {
	body, _, err := s.db.From(tableInvoices).
		Insert(inv, false, "", "representation", "").
		Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.Conflict, err, "invoice number %s already taken", inv.InvoiceNumber)
		}
		return nil, fmt.Errorf("inserting invoice: %w", err)
	}
	return decodeOne[models.Invoice](body, "invoice")
}

// DeleteInvoice removes an invoice. Used to compensate when marking time
// entries invoiced fails after the invoice row was created.
func (s *Store) DeleteInvoice(id uuid.UUID) error {
	_, _, err := s.db.From(tableInvoices).
		Delete("minimal", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("deleting invoice %s: %w", id, err)
	}
	return nil
}

// UpdateInvoice applies a partial update and returns the updated row.
func (s *Store) UpdateInvoice(id uuid.UUID, fields map[string]interface{}) (*models.Invoice, error) {
	fields["updated_at"] = time.Now()
	body, _, err := s.db.From(tableInvoices).
		Update(fields, "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating invoice %s: %w", id, err)
	}
	return decodeOne[models.Invoice](body, "invoice")
}

// Settings fetches the studio invoice settings singleton.
func (s *Store) Settings() (*models.InvoiceSettings, error) {
	body, _, err := s.db.From(tableSettings).
		Select("*", "", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching invoice settings: %w", err)
	}
	return decodeOne[models.InvoiceSettings](body, "invoice settings")
}

// UpdateSettings applies a partial update to the settings singleton.
func (s *Store) UpdateSettings(id string, fields map[string]interface{}) (*models.InvoiceSettings, error) {
	fields["updated_at"] = time.Now()
	body, _, err := s.db.From(tableSettings).
		Update(fields, "representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("updating invoice settings: %w", err)
	}
	return decodeOne[models.InvoiceSettings](body, "invoice settings")
}
