package config

import (
	"os"
	"strconv"
)

// Studio-wide defaults, overridable via environment.
const (
	// DefaultHourlyRateCents applies to time entries without an explicit
	// rate: 100.00 in minor units.
	DefaultHourlyRateCents int64 = 10000

	// DefaultInvoicePrefix seeds invoice numbering when settings have none.
	DefaultInvoicePrefix = "CM"

	// DefaultDueDays is the payment term applied when settings have none.
	DefaultDueDays = 14
)

// Port returns the HTTP listen port, defaulting to 8080.
func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

// HourlyRateCents returns the studio default hourly rate in cents,
// overridable with DEFAULT_HOURLY_RATE_CENTS.
func HourlyRateCents() int64 {
	if v := os.Getenv("DEFAULT_HOURLY_RATE_CENTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return DefaultHourlyRateCents
}
