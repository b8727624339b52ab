package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/pricing"
)

// StorefrontAPI is the subset of the Storefront client the cart service uses.
type StorefrontAPI interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	CartCreate(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error)
	CartLinesAdd(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error)
	CartLinesUpdate(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error)
	CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
	CartDiscountCodesUpdate(ctx context.Context, cartID string, codes []string) (*domain.Cart, error)
	CartGiftCardCodesUpdate(ctx context.Context, cartID string, codes []string) (*domain.Cart, error)
	CartBuyerIdentityUpdate(ctx context.Context, cartID string, buyer domain.BuyerIdentity) (*domain.Cart, error)
	GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
}

type CartService struct {
	storefront      StorefrontAPI
	defaultCurrency string
	logger          *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(storefront StorefrontAPI, defaultCurrency string, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		storefront:      storefront,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// LoadCart fetches the cart and runs the pricing refresh over it, so every
// cart read reflects the current catalog metafields. Returns the refreshed
// cart and its display totals.
func (s *CartService) LoadCart(ctx context.Context, cartID string) (*domain.Cart, domain.CartTotals, error) {
	cart, err := s.storefront.GetCart(ctx, cartID)
	if err != nil {
		return nil, domain.CartTotals{}, err
	}
	refreshed, err := s.RefreshCartPricing(ctx, cart)
	if err != nil {
		return nil, domain.CartTotals{}, err
	}
	return refreshed, pricing.CalculateCartTotals(refreshed), nil
}

// RefreshCartPricing recomputes custom pricing for every cart line from the
// current catalog metafields and rewrites the lines' price attributes.
// Product lookups are deduplicated by handle and run concurrently; the
// refreshed cart is only returned after every fetch has settled. A failed
// lookup, a missing variant, or a product without custom pricing leaves that
// line's attributes untouched.
func (s *CartService) RefreshCartPricing(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if cart == nil || len(cart.Lines.Nodes) == 0 {
		return cart, nil
	}

	products := s.fetchProducts(ctx, distinctHandles(cart.Lines.Nodes))

	var updates []domain.CartLineInput
	for _, line := range cart.Lines.Nodes {
		product := products[line.Merchandise.Product.Handle]
		if product == nil {
			// Lookup failed or handle missing: keep prior attributes.
			continue
		}
		variant := findVariant(product, line.Merchandise.ID)
		if variant == nil {
			continue
		}

		calc := pricing.CalculateForVariant(variant, product, s.lineCurrency(product, line))
		if calc == nil {
			// No custom pricing applies: line passes through untouched.
			continue
		}

		attrs := pricing.MergeAttributes(line.Attributes, calc)
		if pricing.AttributesEqual(line.Attributes, attrs) {
			continue
		}
		updates = append(updates, domain.CartLineInput{
			ID:         line.ID,
			Quantity:   line.Quantity,
			Attributes: attrs,
		})
	}

	if len(updates) == 0 {
		return cart, nil
	}

	s.logger.Info("Refreshing cart line pricing",
		zap.String("cart_id", cart.ID),
		zap.Int("lines_updated", len(updates)),
	)
	updated, err := s.storefront.CartLinesUpdate(ctx, cart.ID, updates)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddLines adds lines to the cart, creating the cart first when no cart id
// is known yet. Incoming custom price attributes are normalized before the
// mutation.
func (s *CartService) AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	injected := injectAll(lines)
	if cartID == "" {
		return s.storefront.CartCreate(ctx, injected)
	}
	return s.storefront.CartLinesAdd(ctx, cartID, injected)
}

// UpdateLines updates quantity or attributes on existing lines, normalizing
// custom price attributes the same way AddLines does.
func (s *CartService) UpdateLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	return s.storefront.CartLinesUpdate(ctx, cartID, injectAll(lines))
}

func (s *CartService) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	return s.storefront.CartLinesRemove(ctx, cartID, lineIDs)
}

func (s *CartService) UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*domain.Cart, error) {
	return s.storefront.CartDiscountCodesUpdate(ctx, cartID, codes)
}

func (s *CartService) UpdateGiftCardCodes(ctx context.Context, cartID string, codes []string) (*domain.Cart, error) {
	return s.storefront.CartGiftCardCodesUpdate(ctx, cartID, codes)
}

func (s *CartService) UpdateBuyerIdentity(ctx context.Context, cartID string, buyer domain.BuyerIdentity) (*domain.Cart, error) {
	return s.storefront.CartBuyerIdentityUpdate(ctx, cartID, buyer)
}

// fetchProducts looks up each distinct handle concurrently and joins before
// returning. Failed lookups are logged and yield a nil entry so the affected
// lines fall back to their prior attributes.
func (s *CartService) fetchProducts(ctx context.Context, handles []string) map[string]*domain.Product {
	products := make(map[string]*domain.Product, len(handles))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, handle := range handles {
		wg.Add(1)
		go func(handle string) {
			defer wg.Done()
			product, err := s.storefront.GetProductByHandle(ctx, handle)
			if err != nil {
				s.logger.Warn("Product lookup failed during cart refresh, keeping prior line attributes",
					zap.String("handle", handle),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			products[handle] = product
			mu.Unlock()
		}(handle)
	}
	wg.Wait()
	return products
}

// lineCurrency picks the currency for a recomputed price: the money
// metafield's own currency wins, then the line's platform cost currency,
// then the configured default.
func (s *CartService) lineCurrency(product *domain.Product, line domain.CartLine) string {
	if c := pricing.MetafieldCurrency(product.CustomPrice); c != "" {
		return c
	}
	if c := line.Cost.AmountPerQuantity.CurrencyCode; c != "" {
		return c
	}
	return s.defaultCurrency
}

func distinctHandles(lines []domain.CartLine) []string {
	seen := make(map[string]bool, len(lines))
	var handles []string
	for _, line := range lines {
		handle := line.Merchandise.Product.Handle
		if handle == "" || seen[handle] {
			continue
		}
		seen[handle] = true
		handles = append(handles, handle)
	}
	return handles
}

func findVariant(product *domain.Product, variantID string) *domain.ProductVariant {
	for i := range product.Variants.Nodes {
		if product.Variants.Nodes[i].ID == variantID {
			return &product.Variants.Nodes[i]
		}
	}
	return nil
}

func injectAll(lines []domain.CartLineInput) []domain.CartLineInput {
	out := make([]domain.CartLineInput, len(lines))
	for i, line := range lines {
		out[i] = pricing.InjectUnitPrice(line)
	}
	return out
}
