package pricing

import (
	"math"
	"strconv"

	"github.com/jafarshop/storefront/internal/domain"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// CalculatedPrice is the derived, ephemeral result of applying metafield
// discounts to a metafield base price. It is recomputed on demand and never
// persisted authoritatively; cart line attributes only carry copies of it.
type CalculatedPrice struct {
	OriginalPrice  string `json:"originalPrice"`
	FinalPrice     string `json:"finalPrice"`
	DiscountAmount string `json:"discountAmount"`
	// DiscountType is "percentage", "fixed", or "" when no discount applied.
	DiscountType  string `json:"discountType,omitempty"`
	DiscountValue string `json:"discountValue,omitempty"`
	CurrencyCode  string `json:"currencyCode"`
}

// Calculate computes the effective price from metafield inputs. Returns nil
// when no custom price applies (price absent, non-numeric, or <= 0), in which
// case callers fall back to the platform price.
//
// The larger of the percentage-derived and fixed-amount-derived savings is
// applied, never their sum; a tie goes to the percentage discount. Negative
// or non-numeric discount inputs count as zero. The final price is clamped
// at zero.
func Calculate(mf CustomPriceMetafields, currencyCode string) *CalculatedPrice {
	if mf.Price == "" {
		return nil
	}
	originalPrice, err := strconv.ParseFloat(mf.Price, 64)
	if err != nil || math.IsNaN(originalPrice) || originalPrice <= 0 {
		return nil
	}

	percentageSavings := 0.0
	if pct := parsePositiveFloat(mf.DiscountPercentage); pct > 0 {
		percentageSavings = originalPrice * pct / 100
	}
	fixedSavings := parsePositiveFloat(mf.DiscountFixedAmount)

	var discountAmount float64
	var discountType, discountValue string
	switch {
	case percentageSavings >= fixedSavings && percentageSavings > 0:
		discountAmount = percentageSavings
		discountType = DiscountTypePercentage
		discountValue = mf.DiscountPercentage
	case fixedSavings > 0:
		discountAmount = fixedSavings
		discountType = DiscountTypeFixed
		discountValue = mf.DiscountFixedAmount
	}

	finalPrice := math.Max(0, originalPrice-discountAmount)

	return &CalculatedPrice{
		OriginalPrice:  formatAmount(originalPrice),
		FinalPrice:     formatAmount(finalPrice),
		DiscountAmount: formatAmount(discountAmount),
		DiscountType:   discountType,
		DiscountValue:  discountValue,
		CurrencyCode:   currencyCode,
	}
}

// CalculateForVariant computes the custom price for a specific variant:
// variant-level metafields win, product-level metafields are the fallback.
func CalculateForVariant(variant *domain.ProductVariant, product *domain.Product, currencyCode string) *CalculatedPrice {
	if variant != nil {
		if calc := Calculate(VariantMetafields(variant), currencyCode); calc != nil {
			return calc
		}
	}
	if product != nil {
		return Calculate(ProductMetafields(product), currencyCode)
	}
	return nil
}

// CalculateForProduct computes the product-level custom price, used for
// listing pages that show the minimum variant price.
func CalculateForProduct(product *domain.Product, currencyCode string) *CalculatedPrice {
	if product == nil {
		return nil
	}
	return Calculate(ProductMetafields(product), currencyCode)
}

// parsePositiveFloat parses a discount input; absent, malformed, or negative
// values all count as zero rather than an error.
func parsePositiveFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

// formatAmount renders a price with exactly two decimal places.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
