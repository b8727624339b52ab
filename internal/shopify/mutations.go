package shopify

// DraftOrderCreateMutation creates a draft order. invoiceUrl is selected
// directly so most checkouts need no follow-up fetch.
const DraftOrderCreateMutation = `
mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
      name
      status
      invoiceUrl
    }
    userErrors {
      field
      message
    }
  }
}
`

// DraftOrderByIDQuery re-fetches a draft order, used once when the create
// response came back without an invoice URL.
const DraftOrderByIDQuery = `
query getDraftOrder($id: ID!) {
  node(id: $id) {
    ... on DraftOrder {
      id
      name
      status
      invoiceUrl
    }
  }
}
`

// DraftOrderInput represents the input for creating a draft order
type DraftOrderInput struct {
	LineItems        []DraftOrderLineItemInput  `json:"lineItems"`
	Email            *string                    `json:"email,omitempty"`
	Tags             []string                   `json:"tags,omitempty"`
	Note             *string                    `json:"note,omitempty"`
	CustomAttributes []DraftOrderAttributeInput `json:"customAttributes,omitempty"`
}

// DraftOrderLineItemInput is one draft order line. Either VariantID is set
// (standard item, platform computes the price from the catalog) or Title plus
// OriginalUnitPrice are set (custom item with no catalog binding, so the
// platform cannot override the price).
type DraftOrderLineItemInput struct {
	VariantID *string `json:"variantId,omitempty"`
	Title     *string `json:"title,omitempty"`
	// For custom line items (no variantId), Shopify expects originalUnitPrice, not price.
	OriginalUnitPrice *string                    `json:"originalUnitPrice,omitempty"`
	Quantity          int                        `json:"quantity"`
	RequiresShipping  *bool                      `json:"requiresShipping,omitempty"`
	Taxable           *bool                      `json:"taxable,omitempty"`
	SKU               *string                    `json:"sku,omitempty"`
	CustomAttributes  []DraftOrderAttributeInput `json:"customAttributes,omitempty"`
}

type DraftOrderAttributeInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DraftOrder is the subset of the created draft order this system reads.
type DraftOrder struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	InvoiceURL string `json:"invoiceUrl"`
}
