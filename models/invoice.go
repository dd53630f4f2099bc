package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus is the billing lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "DRAFT"
	InvoiceSent    InvoiceStatus = "SENT"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

// Valid reports whether s is one of the known invoice statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// InvoiceLineItem is a single billed line. All money fields are integer
// cents; TotalCents is always round(quantity * unit price) at two decimals.
type InvoiceLineItem struct {
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	TotalCents     int64   `json:"total_cents"`
}

// Invoice represents a bill issued to a client for a project.
// InvoiceNumber is unique studio-wide in the form {prefix}-{zero-padded
// sequence}; the store enforces uniqueness with a DB constraint.
type Invoice struct {
	ID             uuid.UUID         `json:"id"`
	ClientID       uuid.UUID         `json:"client_id"`
	ProjectID      uuid.UUID         `json:"project_id"`
	InvoiceNumber  string            `json:"invoice_number"`
	InvoiceDate    time.Time         `json:"invoice_date"`
	DueDate        *time.Time        `json:"due_date,omitempty"` // Nullable TIMESTAMPTZ
	Status         InvoiceStatus     `json:"status"`
	LineItems      []InvoiceLineItem `json:"line_items"` // JSONB column
	SubtotalCents  int64             `json:"subtotal_cents"`
	TaxCents       int64             `json:"tax_cents"`
	AmountCents    int64             `json:"amount_cents"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
