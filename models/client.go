package models

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a studio client in the database.
// A client may log into the portal with PasswordHash; handlers blank the
// hash before responding so it never leaves the server.
type Client struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Company      *string   `json:"company,omitempty"`      // Nullable TEXT
	Phone        *string   `json:"phone,omitempty"`        // Nullable TEXT
	Address      *string   `json:"address,omitempty"`      // Nullable TEXT
	City         *string   `json:"city,omitempty"`         // Nullable TEXT
	CompanyCode  *string   `json:"company_code,omitempty"` // Nullable TEXT
	VATCode      *string   `json:"vat_code,omitempty"`     // Nullable TEXT
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
