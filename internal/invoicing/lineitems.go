package invoicing

import (
	"fmt"
	"strings"

	"craftmotion/studio-api/internal/apperr"
	"craftmotion/studio-api/internal/money"
	"craftmotion/studio-api/models"
)

// NewLineItem builds a line with total = round(quantity * unit price) at
// cent precision. Negative quantities and prices are rejected outright.
func NewLineItem(description string, quantity float64, unitPriceCents int64) (models.InvoiceLineItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return models.InvoiceLineItem{}, apperr.New(apperr.Validation, "line item description must not be empty")
	}
	if quantity < 0 {
		return models.InvoiceLineItem{}, apperr.New(apperr.Validation, "line item quantity must not be negative")
	}
	if unitPriceCents < 0 {
		return models.InvoiceLineItem{}, apperr.New(apperr.Validation, "line item unit price must not be negative")
	}
	return models.InvoiceLineItem{
		Description:    description,
		Quantity:       quantity,
		UnitPriceCents: unitPriceCents,
		TotalCents:     money.LineTotal(quantity, unitPriceCents),
	}, nil
}

// Totals is the arithmetic footer of an invoice.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	GrandCents    int64
}

// ComputeTotals sums line totals exactly (integer cents, no drift beyond
// the per-line rounding) and applies VAT when the studio is a VAT payer.
func ComputeTotals(items []models.InvoiceLineItem, vatPayer bool, vatRate float64) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.TotalCents
	}
	var tax int64
	if vatPayer {
		tax = money.Tax(subtotal, vatRate)
	}
	return Totals{SubtotalCents: subtotal, TaxCents: tax, GrandCents: subtotal + tax}
}

// LineItemsFromEntries turns time entries into lines: one per entry,
// quantity in hours rounded to one decimal, unit price the entry rate or
// the studio default, description the entry's or "{project} - Work".
func LineItemsFromEntries(entries []models.TimeEntry, projectName string, defaultRateCents int64) ([]models.InvoiceLineItem, error) {
	items := make([]models.InvoiceLineItem, 0, len(entries))
	for _, e := range entries {
		description := fmt.Sprintf("%s - Work", projectName)
		if e.Description != nil && strings.TrimSpace(*e.Description) != "" {
			description = strings.TrimSpace(*e.Description)
		}
		rate := defaultRateCents
		if e.HourlyRateCents != nil {
			rate = *e.HourlyRateCents
		}
		item, err := NewLineItem(description, money.RoundHours(e.DurationSeconds), rate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
