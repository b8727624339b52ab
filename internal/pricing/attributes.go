package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
)

// Canonical cart line attribute keys. These are the only keys writers emit.
// Key names are part of the cart wire contract and must not change: carts
// created by older deployments still carry them.
const (
	AttrCustomUnitPrice   = "_custom_unit_price"
	AttrOriginalUnitPrice = "_original_unit_price"
	AttrDiscountType      = "_discount_type"
)

// Legacy attribute keys from the earlier camelCase scheme. Read-only
// compatibility: readers fall back to them, writers never emit them, and the
// refresh pass strips them when it rewrites a line.
const (
	legacyAttrPrice      = "_customPrice"
	legacyAttrFinalPrice = "_customFinalPrice"
	legacyKeyPrefix      = "_custom"
)

// VariantTraceAttr records the source variant id on a custom draft order
// line item, which has no catalog binding of its own.
const VariantTraceAttr = "_variant_id"

func findAttribute(attrs []domain.Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// CustomUnitPrice reads the injected effective unit price from a line's
// attributes, consulting the canonical key first and the legacy scheme as a
// fallback. The second return reports whether any price attribute was found
// at all; the value itself may still be malformed.
func CustomUnitPrice(attrs []domain.Attribute) (string, bool) {
	if v, ok := findAttribute(attrs, AttrCustomUnitPrice); ok {
		return v, true
	}
	if v, ok := findAttribute(attrs, legacyAttrFinalPrice); ok {
		return v, true
	}
	return "", false
}

// OriginalUnitPrice reads the injected pre-discount unit price, with the
// legacy scheme as fallback.
func OriginalUnitPrice(attrs []domain.Attribute) (string, bool) {
	if v, ok := findAttribute(attrs, AttrOriginalUnitPrice); ok {
		return v, true
	}
	if v, ok := findAttribute(attrs, legacyAttrPrice); ok {
		return v, true
	}
	return "", false
}

// ValidUnitPrice parses an injected price attribute value; ok is false for
// anything that is not a finite number >= 0.
func ValidUnitPrice(value string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// InjectUnitPrice is a pure transform over a cart line input: when the line
// already carries a valid custom unit price attribute it is normalized to a
// 2-decimal string under the canonical key; otherwise the line is returned
// unchanged.
func InjectUnitPrice(line domain.CartLineInput) domain.CartLineInput {
	raw, ok := CustomUnitPrice(line.Attributes)
	if !ok {
		return line
	}
	v, ok := ValidUnitPrice(raw)
	if !ok {
		return line
	}

	normalized := formatAmount(v)
	attrs := make([]domain.Attribute, 0, len(line.Attributes)+1)
	for _, a := range line.Attributes {
		if a.Key == AttrCustomUnitPrice {
			continue
		}
		attrs = append(attrs, a)
	}
	attrs = append(attrs, domain.Attribute{Key: AttrCustomUnitPrice, Value: normalized})
	line.Attributes = attrs
	return line
}

// isPricingAttribute reports whether a key belongs to this system's pricing
// namespace, canonical or legacy.
func isPricingAttribute(key string) bool {
	switch key {
	case AttrCustomUnitPrice, AttrOriginalUnitPrice, AttrDiscountType:
		return true
	}
	return strings.HasPrefix(key, legacyKeyPrefix)
}

// MergeAttributes rewrites a line's attribute bag with freshly computed
// pricing: all stale pricing keys (canonical and legacy) are stripped,
// unrelated attributes are preserved in order, and the canonical trio is
// appended. With a nil calculation it only strips, leaving the line without
// custom pricing.
func MergeAttributes(existing []domain.Attribute, calc *CalculatedPrice) []domain.Attribute {
	out := make([]domain.Attribute, 0, len(existing)+3)
	for _, a := range existing {
		if isPricingAttribute(a.Key) {
			continue
		}
		out = append(out, a)
	}
	if calc != nil {
		out = append(out,
			domain.Attribute{Key: AttrCustomUnitPrice, Value: calc.FinalPrice},
			domain.Attribute{Key: AttrOriginalUnitPrice, Value: calc.OriginalPrice},
			domain.Attribute{Key: AttrDiscountType, Value: calc.DiscountType},
		)
	}
	return out
}

// AttributesEqual compares two attribute bags by key and value, order
// sensitive. Used to skip cart updates when a refresh changed nothing.
func AttributesEqual(a, b []domain.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
