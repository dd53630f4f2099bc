// Property-based tests for the arithmetic and numbering contracts.
package invoicing_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"craftmotion/studio-api/internal/invoicing"
	"craftmotion/studio-api/models"
)

// Property: total == round(quantity * unitPrice) at cent precision for all
// non-negative inputs.
func TestLineItemTotalProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("line total is the rounded product", prop.ForAll(
		func(quantity float64, unitPriceCents int64) bool {
			item, err := invoicing.NewLineItem("work", quantity, unitPriceCents)
			if err != nil {
				return false
			}
			expected := int64(math.Round(quantity * float64(unitPriceCents)))
			return item.TotalCents == expected
		},
		gen.Float64Range(0, 10000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.Property("negative inputs are rejected", prop.ForAll(
		func(quantity float64, unitPriceCents int64) bool {
			_, qErr := invoicing.NewLineItem("work", -quantity-0.01, unitPriceCents)
			_, pErr := invoicing.NewLineItem("work", quantity, -unitPriceCents-1)
			return qErr != nil && pErr != nil
		},
		gen.Float64Range(0, 10000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}

// Property: subtotal is exactly the sum of line totals, with no
// accumulation drift, and the grand total is subtotal plus tax.
func TestComputeTotalsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("subtotal equals the exact sum of totals", prop.ForAll(
		func(quantities []float64) bool {
			items := make([]models.InvoiceLineItem, 0, len(quantities))
			var expected int64
			for _, q := range quantities {
				item, err := invoicing.NewLineItem("work", q, 12345)
				if err != nil {
					return false
				}
				items = append(items, item)
				expected += item.TotalCents
			}
			totals := invoicing.ComputeTotals(items, true, 21)
			if totals.SubtotalCents != expected {
				return false
			}
			return totals.GrandCents == totals.SubtotalCents+totals.TaxCents
		},
		gen.SliceOf(gen.Float64Range(0, 500)),
	))

	properties.Property("no tax when not a VAT payer", prop.ForAll(
		func(quantity float64) bool {
			item, err := invoicing.NewLineItem("work", quantity, 9999)
			if err != nil {
				return false
			}
			totals := invoicing.ComputeTotals([]models.InvoiceLineItem{item}, false, 21)
			return totals.TaxCents == 0 && totals.GrandCents == totals.SubtotalCents
		},
		gen.Float64Range(0, 500),
	))

	properties.TestingRun(t)
}

// Property: for any set of existing sequence numbers, the derived next
// number is strictly greater than every existing one.
func TestNextNumberMonotonicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("next number exceeds every existing sequence", prop.ForAll(
		func(sequences []int) bool {
			existing := make([]string, len(sequences))
			max := 0
			for i, n := range sequences {
				existing[i] = fmt.Sprintf("CM-%04d", n)
				if n > max {
					max = n
				}
			}
			next := invoicing.NextNumber("CM", existing)
			return next == fmt.Sprintf("CM-%04d", max+1)
		},
		gen.SliceOf(gen.IntRange(0, 99999)),
	))

	properties.TestingRun(t)
}
