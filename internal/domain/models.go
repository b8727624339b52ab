package domain

// Money is a Storefront API MoneyV2 value.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Metafield is a raw platform metafield record. Value may be a plain scalar
// string or a JSON-encoded money object depending on Type.
type Metafield struct {
	Namespace string `json:"namespace,omitempty"`
	Key       string `json:"key,omitempty"`
	Type      string `json:"type,omitempty"`
	Value     string `json:"value"`
}

// ProductVariant is a catalog variant as returned by the Storefront API.
type ProductVariant struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	SKU                 string     `json:"sku"`
	AvailableForSale    bool       `json:"availableForSale"`
	Price               Money      `json:"price"`
	CompareAtPrice      *Money     `json:"compareAtPrice"`
	CustomPrice         *Metafield `json:"customPrice"`
	DiscountPercentage  *Metafield `json:"discountPercentage"`
	DiscountFixedAmount *Metafield `json:"discountFixedAmount"`
}

// Product is a catalog product with its custom pricing metafields aliased
// into named fields (customPrice, discountPercentage, discountFixedAmount).
type Product struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Handle              string            `json:"handle"`
	Description         string            `json:"description,omitempty"`
	FeaturedImage       *Image            `json:"featuredImage"`
	PriceRange          *PriceRange       `json:"priceRange"`
	CustomPrice         *Metafield        `json:"customPrice"`
	DiscountPercentage  *Metafield        `json:"discountPercentage"`
	DiscountFixedAmount *Metafield        `json:"discountFixedAmount"`
	Variants            VariantConnection `json:"variants"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
}

type VariantConnection struct {
	Nodes []ProductVariant `json:"nodes"`
}

// Attribute is a key/value pair attached to a cart line. Attributes are the
// only channel that carries custom pricing through the platform's cart state.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Merchandise is the variant reference carried on a cart line.
type Merchandise struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	SKU              string         `json:"sku,omitempty"`
	RequiresShipping bool           `json:"requiresShipping"`
	Price            Money          `json:"price"`
	Product          ProductSummary `json:"product"`
}

type ProductSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// CartLineCost is the platform's own pricing for a cart line, used as
// fallback when no custom price attribute is present.
type CartLineCost struct {
	AmountPerQuantity Money `json:"amountPerQuantity"`
	TotalAmount       Money `json:"totalAmount"`
}

// CartLine is a platform-owned cart line referenced by this system.
type CartLine struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Attributes  []Attribute  `json:"attributes"`
	Cost        CartLineCost `json:"cost"`
	Merchandise Merchandise  `json:"merchandise"`
}

type CartLineConnection struct {
	Nodes []CartLine `json:"nodes"`
}

type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
}

type BuyerIdentity struct {
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

type DiscountCode struct {
	Code       string `json:"code"`
	Applicable bool   `json:"applicable"`
}

type AppliedGiftCard struct {
	ID             string `json:"id"`
	LastCharacters string `json:"lastCharacters"`
	AmountUsed     Money  `json:"amountUsed"`
}

// Cart is the platform cart document identified by its platform-issued id.
type Cart struct {
	ID               string             `json:"id"`
	CheckoutURL      string             `json:"checkoutUrl"`
	TotalQuantity    int                `json:"totalQuantity"`
	BuyerIdentity    BuyerIdentity      `json:"buyerIdentity"`
	Cost             CartCost           `json:"cost"`
	DiscountCodes    []DiscountCode     `json:"discountCodes"`
	AppliedGiftCards []AppliedGiftCard  `json:"appliedGiftCards"`
	Lines            CartLineConnection `json:"lines"`
}

// CartLineInput is a line payload for cart add/update mutations.
type CartLineInput struct {
	ID            string      `json:"id,omitempty"`
	MerchandiseID string      `json:"merchandiseId,omitempty"`
	Quantity      int         `json:"quantity"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

// CartTotals are display figures derived from injected price attributes with
// the platform's own line costs as fallback.
type CartTotals struct {
	CustomSubtotal  float64 `json:"customSubtotal"`
	RegularSubtotal float64 `json:"regularSubtotal"`
	TotalSavings    float64 `json:"totalSavings"`
	CurrencyCode    string  `json:"currencyCode"`
}

// PageInfo carries Storefront API pagination cursors.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}
