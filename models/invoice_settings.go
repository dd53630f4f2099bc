package models

import "time"

// InvoiceSettings is the studio-wide singleton read by the invoice
// composer. NextInvoiceNumber is advisory only: the authoritative next
// number is recomputed by scanning persisted invoices, so a drifted counter
// never produces a duplicate.
type InvoiceSettings struct {
	ID                string    `json:"id"`
	CompanyName       string    `json:"company_name"`
	CompanyCode       *string   `json:"company_code,omitempty"` // Nullable TEXT
	VATCode           *string   `json:"vat_code,omitempty"`     // Nullable TEXT
	Address           *string   `json:"address,omitempty"`      // Nullable TEXT
	BankName          *string   `json:"bank_name,omitempty"`    // Nullable TEXT
	BankAccount       *string   `json:"bank_account,omitempty"` // Nullable TEXT
	VATPayer          bool      `json:"vat_payer"`
	VATRate           float64   `json:"vat_rate"` // Percent, e.g. 21
	InvoicePrefix     string    `json:"invoice_prefix"`
	NextInvoiceNumber int       `json:"next_invoice_number"`
	DueDays           int       `json:"due_days"`
	Language          string    `json:"language"`
	UpdatedAt         time.Time `json:"updated_at"`
}
