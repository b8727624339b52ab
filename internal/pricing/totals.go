package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
)

// CalculateCartTotals walks the cart lines and produces display subtotals
// from the injected price attributes, with the platform's own per-quantity
// cost as fallback for lines without custom pricing. Malformed attribute
// values sanitize to 0, which can understate totals; that leniency is
// deliberate and not corrected elsewhere.
func CalculateCartTotals(cart *domain.Cart) domain.CartTotals {
	totals := domain.CartTotals{}
	if cart == nil {
		return totals
	}
	totals.CurrencyCode = cart.Cost.SubtotalAmount.CurrencyCode

	for _, line := range cart.Lines.Nodes {
		if line.Quantity <= 0 {
			continue
		}
		fallback := sanitizeAmount(line.Cost.AmountPerQuantity.Amount)

		custom := fallback
		if v, ok := CustomUnitPrice(line.Attributes); ok {
			custom = sanitizeAmount(v)
		}
		original := fallback
		if v, ok := OriginalUnitPrice(line.Attributes); ok {
			original = sanitizeAmount(v)
		}

		qty := float64(line.Quantity)
		totals.CustomSubtotal += custom * qty
		totals.RegularSubtotal += original * qty
	}

	totals.TotalSavings = math.Max(0, totals.RegularSubtotal-totals.CustomSubtotal)
	return totals
}

// sanitizeAmount parses a price string, dropping currency symbols and other
// non-numeric characters first. Anything unparseable counts as 0.
func sanitizeAmount(value string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, value)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
