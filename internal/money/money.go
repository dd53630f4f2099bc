// Package money does invoice arithmetic in integer cents so totals never
// drift the way accumulated float64 sums do.
package money

import "math"

// Round half-away-from-zero to whole cents.
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

// LineTotal computes round(quantity * unit price) in cents.
func LineTotal(quantity float64, unitPriceCents int64) int64 {
	return roundCents(quantity * float64(unitPriceCents))
}

// Tax computes the VAT amount for a subtotal at ratePercent (e.g. 21).
func Tax(subtotalCents int64, ratePercent float64) int64 {
	return roundCents(float64(subtotalCents) * ratePercent / 100)
}

// FromHours bills hours at a rate in cents, rounding to whole cents.
func FromHours(hours float64, rateCents int64) int64 {
	return roundCents(hours * float64(rateCents))
}

// RoundHours rounds a seconds duration to one decimal hour, the quantity
// precision invoices use (5400s -> 1.5).
func RoundHours(durationSeconds int64) float64 {
	return math.Round(float64(durationSeconds)/3600*10) / 10
}
