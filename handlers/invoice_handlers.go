package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"craftmotion/studio-api/internal/invoicing"
	"craftmotion/studio-api/utils"
)

// ManualLineItemRequest is an ad-hoc line supplied on invoice creation.
type ManualLineItemRequest struct {
	Description    string  `json:"description" validate:"required"`
	Quantity       float64 `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64   `json:"unit_price_cents" validate:"gte=0"`
}

// CreateInvoiceRequest defines the body for composing an invoice from
// selected time entries and/or manual lines.
type CreateInvoiceRequest struct {
	ProjectID    *uuid.UUID              `json:"project_id,omitempty"`
	TimeEntryIDs []uuid.UUID             `json:"time_entry_ids,omitempty"`
	ManualItems  []ManualLineItemRequest `json:"manual_items,omitempty" validate:"dive"`
	InvoiceDate  *time.Time              `json:"invoice_date,omitempty"`
}

// UpdateInvoiceStatusRequest moves an invoice through its billing states.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateInvoiceSettingsRequest is the typed partial update for the studio
// billing settings singleton.
type UpdateInvoiceSettingsRequest struct {
	CompanyName       *string  `json:"company_name,omitempty"`
	CompanyCode       *string  `json:"company_code,omitempty"`
	VATCode           *string  `json:"vat_code,omitempty"`
	Address           *string  `json:"address,omitempty"`
	BankName          *string  `json:"bank_name,omitempty"`
	BankAccount       *string  `json:"bank_account,omitempty"`
	VATPayer          *bool    `json:"vat_payer,omitempty"`
	VATRate           *float64 `json:"vat_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	InvoicePrefix     *string  `json:"invoice_prefix,omitempty"`
	NextInvoiceNumber *int     `json:"next_invoice_number,omitempty" validate:"omitempty,gt=0"`
	DueDays           *int     `json:"due_days,omitempty" validate:"omitempty,gt=0"`
	Language          *string  `json:"language,omitempty"`
}

// CreateInvoice composes and persists an invoice.
// POST /api/v1/invoices
func (h *ApplicationHandler) CreateInvoice(c *fiber.Ctx) error {
	var payload CreateInvoiceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse invoice JSON")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	manual := make([]invoicing.ManualItem, 0, len(payload.ManualItems))
	for _, item := range payload.ManualItems {
		manual = append(manual, invoicing.ManualItem{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	invoiceDate := time.Now()
	if payload.InvoiceDate != nil {
		invoiceDate = *payload.InvoiceDate
	}

	invoice, err := h.Composer.Create(invoicing.CreateParams{
		ProjectID:   payload.ProjectID,
		EntryIDs:    payload.TimeEntryIDs,
		ManualItems: manual,
		InvoiceDate: invoiceDate,
	})
	if err != nil {
		h.Logger.Errorf("Error creating invoice: %v", err)
		return utils.RespondWithAppError(c, err)
	}
	h.Logger.Infof("Created invoice %s for project %s", invoice.InvoiceNumber, invoice.ProjectID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, invoice)
}

// GetInvoices lists all invoices, newest first.
// GET /api/v1/invoices
func (h *ApplicationHandler) GetInvoices(c *fiber.Ctx) error {
	invoices, err := h.Store.Invoices()
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, invoices)
}

// GetInvoice retrieves a single invoice.
// GET /api/v1/invoices/:id
func (h *ApplicationHandler) GetInvoice(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid invoice ID format")
	}
	invoice, err := h.Store.Invoice(invoiceID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, invoice)
}

// UpdateInvoiceStatus moves an invoice to a new billing status.
// PATCH /api/v1/invoices/:id/status
func (h *ApplicationHandler) UpdateInvoiceStatus(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid invoice ID format")
	}

	var payload UpdateInvoiceStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	invoice, err := h.Composer.UpdateStatus(invoiceID, payload.Status)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, invoice)
}

// GetAvailableTimeEntries lists a project's billable, not-yet-invoiced
// entries, the pick list for composing an invoice.
// GET /api/v1/invoices/available-entries?projectId=
func (h *ApplicationHandler) GetAvailableTimeEntries(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Query("projectId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Missing or invalid projectId query parameter")
	}
	entries, err := h.Composer.AvailableEntries(projectID)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, entries)
}

// GetInvoiceSettings returns the studio billing settings singleton.
// GET /api/v1/invoices/settings
func (h *ApplicationHandler) GetInvoiceSettings(c *fiber.Ctx) error {
	settings, err := h.Store.Settings()
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, settings)
}

// UpdateInvoiceSettings partially updates the billing settings singleton.
// PATCH /api/v1/invoices/settings
func (h *ApplicationHandler) UpdateInvoiceSettings(c *fiber.Ctx) error {
	var payload UpdateInvoiceSettingsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	current, err := h.Store.Settings()
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}

	fields := make(map[string]interface{})
	if payload.CompanyName != nil {
		fields["company_name"] = *payload.CompanyName
	}
	if payload.CompanyCode != nil {
		fields["company_code"] = *payload.CompanyCode
	}
	if payload.VATCode != nil {
		fields["vat_code"] = *payload.VATCode
	}
	if payload.Address != nil {
		fields["address"] = *payload.Address
	}
	if payload.BankName != nil {
		fields["bank_name"] = *payload.BankName
	}
	if payload.BankAccount != nil {
		fields["bank_account"] = *payload.BankAccount
	}
	if payload.VATPayer != nil {
		fields["vat_payer"] = *payload.VATPayer
	}
	if payload.VATRate != nil {
		fields["vat_rate"] = *payload.VATRate
	}
	if payload.InvoicePrefix != nil {
		prefix := strings.TrimSpace(*payload.InvoicePrefix)
		if prefix == "" {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Invoice prefix must not be empty")
		}
		fields["invoice_prefix"] = prefix
	}
	if payload.NextInvoiceNumber != nil {
		fields["next_invoice_number"] = *payload.NextInvoiceNumber
	}
	if payload.DueDays != nil {
		fields["due_days"] = *payload.DueDays
	}
	if payload.Language != nil {
		fields["language"] = *payload.Language
	}

	settings, err := h.Store.UpdateSettings(current.ID, fields)
	if err != nil {
		return utils.RespondWithAppError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, settings)
}
