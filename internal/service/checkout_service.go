package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/pricing"
	"github.com/jafarshop/storefront/internal/shopify"
	"github.com/jafarshop/storefront/pkg/errors"
)

// AdminAPI is the subset of the Admin client the checkout service uses.
type AdminAPI interface {
	CreateDraftOrder(ctx context.Context, input shopify.DraftOrderInput) (*shopify.DraftOrder, error)
	GetDraftOrder(ctx context.Context, id string) (*shopify.DraftOrder, error)
}

// CheckoutService turns a priced cart into a draft order whose invoice URL
// is the checkout destination, so the injected custom price (not the
// platform list price) is what the customer pays.
type CheckoutService struct {
	admin      AdminAPI
	adminToken string
	logger     *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(admin AdminAPI, adminToken string, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		admin:      admin,
		adminToken: adminToken,
		logger:     logger,
	}
}

// CheckoutResult is the outcome of a successful checkout attempt.
type CheckoutResult struct {
	DraftOrderID   string
	DraftOrderName string
	InvoiceURL     string
	// LineErrors lists cart lines dropped during translation. Checkout
	// proceeds when at least one line survives.
	LineErrors []string
}

// Checkout runs one checkout attempt over the given cart: validate the
// configuration, translate the lines, submit the draft order, and resolve
// its invoice URL. Each invocation creates a new draft order; there is no
// deduplication across repeated submissions.
func (s *CheckoutService) Checkout(ctx context.Context, cart *domain.Cart) (*CheckoutResult, error) {
	if cart == nil || len(cart.Lines.Nodes) == 0 {
		return nil, &errors.ErrNoValidItems{}
	}
	if s.adminToken == "" {
		return nil, &errors.ErrConfiguration{Message: "admin API token is not configured"}
	}
	if !strings.HasPrefix(s.adminToken, config.AdminTokenPrefix) {
		return nil, &errors.ErrConfiguration{
			Message: fmt.Sprintf("admin API token must start with %q", config.AdminTokenPrefix),
		}
	}

	lineItems, lineErrors := s.translateLines(cart)
	if len(lineItems) == 0 {
		return nil, &errors.ErrNoValidItems{}
	}

	attemptID := uuid.New().String()
	input := shopify.DraftOrderInput{
		LineItems: lineItems,
		Tags:      []string{"custom-pricing"},
		Note:      stringPtr("Custom pricing applied from metafields"),
		CustomAttributes: []shopify.DraftOrderAttributeInput{
			{Key: "_checkout_attempt", Value: attemptID},
			{Key: "_cart_id", Value: cart.ID},
		},
	}
	if cart.BuyerIdentity.Email != "" {
		input.Email = stringPtr(cart.BuyerIdentity.Email)
	}

	draftOrder, err := s.admin.CreateDraftOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	invoiceURL := draftOrder.InvoiceURL
	if invoiceURL == "" {
		// The invoice URL can be generated asynchronously; one re-fetch.
		s.logger.Info("Invoice URL missing from create response, re-fetching draft order",
			zap.String("draft_order_id", draftOrder.ID))
		refetched, err := s.admin.GetDraftOrder(ctx, draftOrder.ID)
		if err != nil {
			s.logger.Warn("Draft order re-fetch failed", zap.Error(err))
		} else {
			invoiceURL = refetched.InvoiceURL
		}
	}
	if invoiceURL == "" {
		return nil, &errors.ErrInvoiceUnavailable{DraftOrderID: draftOrder.ID}
	}

	s.logger.Info("Checkout draft order ready",
		zap.String("draft_order_id", draftOrder.ID),
		zap.String("attempt_id", attemptID),
		zap.Int("line_items", len(lineItems)),
		zap.Int("dropped_lines", len(lineErrors)),
	)

	return &CheckoutResult{
		DraftOrderID:   draftOrder.ID,
		DraftOrderName: draftOrder.Name,
		InvoiceURL:     invoiceURL,
		LineErrors:     lineErrors,
	}, nil
}

// translateLines converts cart lines into draft order line items. A line
// with a usable injected custom price becomes a custom item (explicit price,
// no catalog binding, source variant recorded as an attribute); any other
// line becomes a standard variant-bound item the platform prices itself. A
// line whose variant id cannot be parsed is recorded and excluded without
// aborting the rest.
func (s *CheckoutService) translateLines(cart *domain.Cart) ([]shopify.DraftOrderLineItemInput, []string) {
	lineItems := make([]shopify.DraftOrderLineItemInput, 0, len(cart.Lines.Nodes))
	var lineErrors []string

	for _, line := range cart.Lines.Nodes {
		item, err := s.translateLine(line)
		if err != nil {
			s.logger.Warn("Dropping cart line from draft order", zap.String("line_id", line.ID), zap.Error(err))
			lineErrors = append(lineErrors, err.Error())
			continue
		}
		lineItems = append(lineItems, item)
	}
	return lineItems, lineErrors
}

func (s *CheckoutService) translateLine(line domain.CartLine) (shopify.DraftOrderLineItemInput, error) {
	variantID, err := extractIDFromGID(line.Merchandise.ID)
	if err != nil {
		return shopify.DraftOrderLineItemInput{}, &errors.ErrTranslation{
			LineID: line.ID,
			Reason: fmt.Sprintf("invalid variant id %q", line.Merchandise.ID),
		}
	}

	quantity := line.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	if raw, found := pricing.CustomUnitPrice(line.Attributes); found {
		if price, ok := pricing.ValidUnitPrice(raw); ok {
			return s.customLineItem(line, variantID, price, quantity), nil
		}
		s.logger.Warn("Custom price attribute present but unusable, falling back to variant pricing",
			zap.String("line_id", line.ID),
			zap.String("value", raw),
		)
	}

	// Standard item: platform computes the price from the catalog.
	variantGID := fmt.Sprintf("gid://shopify/ProductVariant/%d", variantID)
	return shopify.DraftOrderLineItemInput{
		VariantID:        &variantGID,
		Quantity:         quantity,
		CustomAttributes: draftAttributes(line.Attributes),
	}, nil
}

// customLineItem builds a custom (title + price) draft order line. Custom
// items have no catalog binding, so the platform cannot override the price;
// the source variant id travels along as an attribute for traceability.
func (s *CheckoutService) customLineItem(line domain.CartLine, variantID int64, price float64, quantity int) shopify.DraftOrderLineItemInput {
	title := line.Merchandise.Product.Title
	if title == "" {
		title = "Product"
	}
	if vt := line.Merchandise.Title; vt != "" && vt != title && !strings.EqualFold(vt, "Default Title") {
		title = fmt.Sprintf("%s - %s", title, vt)
	}

	priceStr := strconv.FormatFloat(price, 'f', 2, 64)
	requiresShipping := line.Merchandise.RequiresShipping
	taxable := true

	attrs := draftAttributes(line.Attributes)
	attrs = append(attrs, shopify.DraftOrderAttributeInput{
		Key:   pricing.VariantTraceAttr,
		Value: strconv.FormatInt(variantID, 10),
	})

	item := shopify.DraftOrderLineItemInput{
		Title:             &title,
		OriginalUnitPrice: &priceStr,
		Quantity:          quantity,
		RequiresShipping:  &requiresShipping,
		Taxable:           &taxable,
		CustomAttributes:  attrs,
	}
	if line.Merchandise.SKU != "" {
		item.SKU = stringPtr(line.Merchandise.SKU)
	}
	return item
}

func draftAttributes(attrs []domain.Attribute) []shopify.DraftOrderAttributeInput {
	out := make([]shopify.DraftOrderAttributeInput, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, shopify.DraftOrderAttributeInput{Key: a.Key, Value: a.Value})
	}
	return out
}

// Helper functions
func stringPtr(s string) *string {
	return &s
}

func extractIDFromGID(gid string) (int64, error) {
	// GID format: "gid://shopify/ProductVariant/123456"
	parts := strings.Split(gid, "/")
	if len(parts) < 4 {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}

	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ID from GID: %w", err)
	}

	return id, nil
}
