package pricing

import (
	"encoding/json"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
)

// CustomPriceMetafields are the parsed per-product (or per-variant) pricing
// inputs. Empty strings mean the metafield is absent; absence of Price means
// no custom pricing applies and the platform price is used.
type CustomPriceMetafields struct {
	Price               string
	DiscountPercentage  string
	DiscountFixedAmount string
}

// moneyValue is the JSON shape of a money-typed metafield value. Storefront
// responses use currencyCode, older exports use currency_code; both accepted.
type moneyValue struct {
	Amount       json.Number `json:"amount"`
	CurrencyCode string      `json:"currencyCode"`
	CurrencyAlt  string      `json:"currency_code"`
}

// MetafieldValue extracts the usable scalar from a raw metafield record.
// Money-typed values are JSON-encoded ({"amount":"100.00","currencyCode":"USD"})
// and yield the amount. Parse failures degrade: a non-JSON-looking string is
// treated as the raw amount, anything else yields "". Never errors; ""
// downstream means "no custom price".
func MetafieldValue(mf *domain.Metafield) string {
	if mf == nil {
		return ""
	}

	if mf.Type == "money" || mf.Type == "money_decimal" {
		var parsed moneyValue
		if err := json.Unmarshal([]byte(mf.Value), &parsed); err == nil && parsed.Amount != "" {
			return parsed.Amount.String()
		}
		if mf.Value != "" && !strings.HasPrefix(mf.Value, "{") {
			return mf.Value
		}
		return ""
	}

	return mf.Value
}

// MetafieldCurrency extracts the currency code from a money-typed metafield,
// or "" when none is encoded.
func MetafieldCurrency(mf *domain.Metafield) string {
	if mf == nil || (mf.Type != "money" && mf.Type != "money_decimal") {
		return ""
	}
	var parsed moneyValue
	if err := json.Unmarshal([]byte(mf.Value), &parsed); err != nil {
		return ""
	}
	if parsed.CurrencyCode != "" {
		return parsed.CurrencyCode
	}
	return parsed.CurrencyAlt
}

// ProductMetafields collects the custom pricing inputs from a product's
// aliased metafields.
func ProductMetafields(p *domain.Product) CustomPriceMetafields {
	if p == nil {
		return CustomPriceMetafields{}
	}
	return CustomPriceMetafields{
		Price:               MetafieldValue(p.CustomPrice),
		DiscountPercentage:  MetafieldValue(p.DiscountPercentage),
		DiscountFixedAmount: MetafieldValue(p.DiscountFixedAmount),
	}
}

// VariantMetafields collects the custom pricing inputs from a variant's
// aliased metafields.
func VariantMetafields(v *domain.ProductVariant) CustomPriceMetafields {
	if v == nil {
		return CustomPriceMetafields{}
	}
	return CustomPriceMetafields{
		Price:               MetafieldValue(v.CustomPrice),
		DiscountPercentage:  MetafieldValue(v.DiscountPercentage),
		DiscountFixedAmount: MetafieldValue(v.DiscountFixedAmount),
	}
}
