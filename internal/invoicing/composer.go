// Package invoicing assembles invoices from time entries or manual lines,
// with scan-derived monotonic numbering and all-or-nothing marking of the
// billed entries.
package invoicing

import (
	"time"

	"github.com/google/uuid"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/models"
)

// maxAttempts bounds the recompute-and-retry loop on number collisions.
const maxAttempts = 3

// Store is the persistence the composer needs.
type Store interface {
	Invoice(id uuid.UUID) (*models.Invoice, error)
	InvoiceNumbers(prefix string) ([]string, error)
	InsertInvoice(inv models.Invoice) (*models.Invoice, error)
	UpdateInvoice(id uuid.UUID, fields map[string]interface{}) (*models.Invoice, error)
	DeleteInvoice(id uuid.UUID) error
	TimeEntriesByIDs(ids []uuid.UUID) ([]models.TimeEntry, error)
	MarkTimeEntriesInvoiced(ids []uuid.UUID) (int64, error)
	AvailableTimeEntries(projectID uuid.UUID) ([]models.TimeEntry, error)
	Settings() (*models.InvoiceSettings, error)
	Project(id uuid.UUID) (*models.Project, error)
}

// Composer creates invoices.
type Composer struct {
	store            Store
	defaultRateCents int64
	defaultPrefix    string
	defaultDueDays   int
}

// NewComposer creates a composer with the studio defaults used when
// settings omit a value.
func NewComposer(store Store, defaultRateCents int64, defaultPrefix string, defaultDueDays int) *Composer {
	return &Composer{
		store:            store,
		defaultRateCents: defaultRateCents,
		defaultPrefix:    defaultPrefix,
		defaultDueDays:   defaultDueDays,
	}
}

// ManualItem is an ad-hoc line supplied by the admin.
type ManualItem struct {
	Description    string
	Quantity       float64
	UnitPriceCents int64
}

// CreateParams describe an invoice draft. EntryIDs select unbilled time
// entries; ManualItems add ad-hoc lines. With no entries, ProjectID is
// required to anchor the invoice.
type CreateParams struct {
	ProjectID   *uuid.UUID
	EntryIDs    []uuid.UUID
	ManualItems []ManualItem
	InvoiceDate time.Time
}

// Create assembles and persists an invoice. Entries must all be billable,
// not yet invoiced, and belong to a single project; selections spanning
// projects fail with MultiProjectSelection before anything is written. On
// success every contributing entry is flipped to invoiced; if that marking
// cannot claim every entry the invoice is removed again so nothing is
// half-billed.
func (c *Composer) Create(p CreateParams) (*models.Invoice, error) {
	if len(p.EntryIDs) == 0 && len(p.ManualItems) == 0 {
		return nil, apperr.New(apperr.Validation, "an invoice needs at least one time entry or line item")
	}

	settings, err := c.store.Settings()
	if err != nil {
		return nil, err
	}
	prefix := settings.InvoicePrefix
	if prefix == "" {
		prefix = c.defaultPrefix
	}
	dueDays := settings.DueDays
	if dueDays <= 0 {
		dueDays = c.defaultDueDays
	}

	var entries []models.TimeEntry
	projectID := p.ProjectID
	if len(p.EntryIDs) > 0 {
		entries, err = c.store.TimeEntriesByIDs(p.EntryIDs)
		if err != nil {
			return nil, err
		}
		if len(entries) != len(p.EntryIDs) {
			return nil, apperr.New(apperr.InvalidReference, "one or more selected time entries do not exist")
		}
		for _, e := range entries {
			if e.Invoiced {
				return nil, apperr.New(apperr.Validation, "time entry %s is already invoiced", e.ID)
			}
			if !e.Billable {
				return nil, apperr.New(apperr.Validation, "time entry %s is not billable", e.ID)
			}
		}
		for _, e := range entries {
			if projectID == nil {
				id := e.ProjectID
				projectID = &id
			} else if e.ProjectID != *projectID {
				return nil, apperr.New(apperr.MultiProjectSelection,
					"selected time entries span more than one project; invoice each project separately")
			}
		}
	}
	if projectID == nil {
		return nil, apperr.New(apperr.Validation, "project is required for a manual invoice")
	}

	project, err := c.store.Project(*projectID)
	if err != nil {
		return nil, err
	}

	items, err := LineItemsFromEntries(entries, project.Name, c.defaultRateCents)
	if err != nil {
		return nil, err
	}
	for _, m := range p.ManualItems {
		item, err := NewLineItem(m.Description, m.Quantity, m.UnitPriceCents)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	totals := ComputeTotals(items, settings.VATPayer, settings.VATRate)

	invoiceDate := p.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}
	dueDate := invoiceDate.AddDate(0, 0, dueDays)

	draft := models.Invoice{
		ClientID:      project.ClientID,
		ProjectID:     project.ID,
		InvoiceDate:   invoiceDate,
		DueDate:       &dueDate,
		Status:        models.InvoiceDraft,
		LineItems:     items,
		SubtotalCents: totals.SubtotalCents,
		TaxCents:      totals.TaxCents,
		AmountCents:   totals.GrandCents,
	}

	invoice, err := c.insertWithFreshNumber(draft, prefix)
	if err != nil {
		return nil, err
	}

	if len(p.EntryIDs) > 0 {
		marked, err := c.store.MarkTimeEntriesInvoiced(p.EntryIDs)
		if err == nil && marked != int64(len(p.EntryIDs)) {
			err = apperr.New(apperr.Conflict, "a selected time entry was invoiced by a concurrent request")
		}
		if err != nil {
			// Compensate: a half-billed invoice is worse than no invoice.
			if delErr := c.store.DeleteInvoice(invoice.ID); delErr != nil {
				return nil, apperr.Wrap(apperr.Conflict, delErr,
					"failed to mark entries invoiced and could not remove invoice %s", invoice.InvoiceNumber)
			}
			return nil, err
		}
	}
	return invoice, nil
}

// insertWithFreshNumber recomputes the number from persisted invoices and
// inserts, retrying when the unique constraint reports another request took
// the number first.
func (c *Composer) insertWithFreshNumber(draft models.Invoice, prefix string) (*models.Invoice, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		existing, err := c.store.InvoiceNumbers(prefix)
		if err != nil {
			return nil, err
		}
		draft.ID = uuid.New()
		draft.InvoiceNumber = NextNumber(prefix, existing)
		invoice, err := c.store.InsertInvoice(draft)
		if err == nil {
			return invoice, nil
		}
		if !apperr.Is(err, apperr.Conflict) {
			return nil, err
		}
	}
	return nil, apperr.New(apperr.Conflict, "could not allocate a unique invoice number, please retry")
}

// statusTransitions are the allowed billing state moves. PAID is terminal.
var statusTransitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceDraft:   {models.InvoiceSent},
	models.InvoiceSent:    {models.InvoicePaid, models.InvoiceOverdue},
	models.InvoiceOverdue: {models.InvoicePaid},
}

// UpdateStatus moves an invoice to a new billing status, rejecting unknown
// statuses and moves the lifecycle does not allow.
func (c *Composer) UpdateStatus(id uuid.UUID, status string) (*models.Invoice, error) {
	next := models.InvoiceStatus(status)
	if !next.Valid() {
		return nil, apperr.New(apperr.Validation, "unknown invoice status %q", status)
	}

	invoice, err := c.store.Invoice(id)
	if err != nil {
		return nil, err
	}
	for _, allowed := range statusTransitions[invoice.Status] {
		if allowed == next {
			return c.store.UpdateInvoice(id, map[string]interface{}{"status": string(next)})
		}
	}
	return nil, apperr.New(apperr.InvalidTransition, "cannot move invoice from %s to %s", invoice.Status, next)
}

// AvailableEntries lists the billable, not-yet-invoiced entries of a
// project: the pool a new draft may draw from. Invoiced entries never
// appear here.
func (c *Composer) AvailableEntries(projectID uuid.UUID) ([]models.TimeEntry, error) {
	if _, err := c.store.Project(projectID); err != nil {
		return nil, err
	}
	return c.store.AvailableTimeEntries(projectID)
}
