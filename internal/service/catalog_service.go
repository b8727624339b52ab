package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/pricing"
	"github.com/jafarshop/storefront/internal/shopify"
)

// CatalogAPI is the subset of the Storefront client the catalog service uses.
type CatalogAPI interface {
	GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	GetCollectionProducts(ctx context.Context, handle string, first int, after string) (*shopify.CollectionProductsPage, error)
	GetQuickViewSettings(ctx context.Context) (map[string]string, error)
}

// CatalogService serves catalog reads annotated with computed custom prices
// for display. It never mutates anything.
type CatalogService struct {
	storefront      CatalogAPI
	defaultCurrency string
	logger          *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(storefront CatalogAPI, defaultCurrency string, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		storefront:      storefront,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// ProductView is a product with its computed custom pricing attached.
// CustomPrice is nil when no custom pricing applies, in which case the
// platform price is displayed.
type ProductView struct {
	Product     domain.Product           `json:"product"`
	CustomPrice *pricing.CalculatedPrice `json:"customPrice,omitempty"`
	// VariantPrices maps variant id to its effective price for variants
	// whose pricing differs from the product-level result.
	VariantPrices map[string]*pricing.CalculatedPrice `json:"variantPrices,omitempty"`
}

// GetProduct fetches a product and computes its custom pricing, product-wide
// and per variant.
func (s *CatalogService) GetProduct(ctx context.Context, handle string) (*ProductView, error) {
	product, err := s.storefront.GetProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	currency := s.productCurrency(product)
	view := &ProductView{
		Product:     *product,
		CustomPrice: pricing.CalculateForProduct(product, currency),
	}

	for i := range product.Variants.Nodes {
		variant := &product.Variants.Nodes[i]
		calc := pricing.CalculateForVariant(variant, product, currency)
		if calc == nil {
			continue
		}
		if view.VariantPrices == nil {
			view.VariantPrices = make(map[string]*pricing.CalculatedPrice)
		}
		view.VariantPrices[variant.ID] = calc
	}
	return view, nil
}

// ProductListItem is one product of a collection listing with its computed
// price, when one applies.
type ProductListItem struct {
	Product     domain.Product           `json:"product"`
	CustomPrice *pricing.CalculatedPrice `json:"customPrice,omitempty"`
}

// CollectionPage is one page of an annotated collection listing.
type CollectionPage struct {
	CollectionTitle string            `json:"collectionTitle"`
	Products        []ProductListItem `json:"products"`
	PageInfo        domain.PageInfo   `json:"pageInfo"`
}

// ListCollectionProducts lists a collection page with each product annotated
// by its product-level custom price.
func (s *CatalogService) ListCollectionProducts(ctx context.Context, handle string, first int, after string) (*CollectionPage, error) {
	page, err := s.storefront.GetCollectionProducts(ctx, handle, first, after)
	if err != nil {
		return nil, err
	}

	items := make([]ProductListItem, 0, len(page.Products))
	for i := range page.Products {
		product := page.Products[i]
		items = append(items, ProductListItem{
			Product:     product,
			CustomPrice: pricing.CalculateForProduct(&product, s.productCurrency(&product)),
		})
	}
	return &CollectionPage{
		CollectionTitle: page.CollectionTitle,
		Products:        items,
		PageInfo:        page.PageInfo,
	}, nil
}

// QuickViewSettings returns the storefront's quick-view settings metaobject,
// flattened for the front-end.
func (s *CatalogService) QuickViewSettings(ctx context.Context) (map[string]string, error) {
	return s.storefront.GetQuickViewSettings(ctx)
}

func (s *CatalogService) productCurrency(product *domain.Product) string {
	if c := pricing.MetafieldCurrency(product.CustomPrice); c != "" {
		return c
	}
	if product.PriceRange != nil && product.PriceRange.MinVariantPrice.CurrencyCode != "" {
		return product.PriceRange.MinVariantPrice.CurrencyCode
	}
	return s.defaultCurrency
}
