package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/pricing"
)

// MockStorefrontAPI is a mock for the StorefrontAPI interface
type MockStorefrontAPI struct {
	mock.Mock
}

func (m *MockStorefrontAPI) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockStorefrontAPI) CartCreate(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error) {
	args := m.Called(ctx, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockStorefrontAPI) CartLinesAdd(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockStorefrontAPI) CartLinesUpdate(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockStorefrontAPI) CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockStorefrontAPI) CartDiscountCodesUpdate(ctx context.Context, cartID string, codes []string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockStorefrontAPI) CartGiftCardCodesUpdate(ctx context.Context, cartID string, codes []string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockStorefrontAPI) CartBuyerIdentityUpdate(ctx context.Context, cartID string, buyer domain.BuyerIdentity) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, buyer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockStorefrontAPI) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func pricedProduct(handle, variantID, price, percentage string) *domain.Product {
	return &domain.Product{
		Handle: handle,
		Title:  "Widget",
		Variants: domain.VariantConnection{Nodes: []domain.ProductVariant{
			{
				ID: variantID,
				CustomPrice: &domain.Metafield{
					Type:  "money",
					Value: `{"amount":"` + price + `","currencyCode":"USD"}`,
				},
				DiscountPercentage: &domain.Metafield{Type: "number_decimal", Value: percentage},
			},
		}},
	}
}

func testCart(lines ...domain.CartLine) *domain.Cart {
	return &domain.Cart{
		ID: "gid://shopify/Cart/abc",
		Cost: domain.CartCost{
			SubtotalAmount: domain.Money{Amount: "0.00", CurrencyCode: "USD"},
		},
		Lines: domain.CartLineConnection{Nodes: lines},
	}
}

func TestLoadCart_RefreshesStaleAttributes(t *testing.T) {
	mockAPI := new(MockStorefrontAPI)
	svc := NewCartService(mockAPI, "USD", nil)

	stale := testCart(domain.CartLine{
		ID:       "line-1",
		Quantity: 2,
		Attributes: []domain.Attribute{
			{Key: pricing.AttrCustomUnitPrice, Value: "90.00"},
			{Key: pricing.AttrOriginalUnitPrice, Value: "100.00"},
			{Key: pricing.AttrDiscountType, Value: "fixed"},
		},
		Merchandise: domain.Merchandise{
			ID:      "gid://shopify/ProductVariant/1",
			Product: domain.ProductSummary{Handle: "widget", Title: "Widget"},
		},
	})
	refreshed := testCart(domain.CartLine{
		ID:       "line-1",
		Quantity: 2,
		Attributes: []domain.Attribute{
			{Key: pricing.AttrCustomUnitPrice, Value: "80.00"},
			{Key: pricing.AttrOriginalUnitPrice, Value: "100.00"},
			{Key: pricing.AttrDiscountType, Value: "percentage"},
		},
	})

	mockAPI.On("GetCart", mock.Anything, "gid://shopify/Cart/abc").Return(stale, nil)
	mockAPI.On("GetProductByHandle", mock.Anything, "widget").
		Return(pricedProduct("widget", "gid://shopify/ProductVariant/1", "100.00", "20"), nil)
	mockAPI.On("CartLinesUpdate", mock.Anything, "gid://shopify/Cart/abc",
		mock.MatchedBy(func(updates []domain.CartLineInput) bool {
			if len(updates) != 1 || updates[0].ID != "line-1" {
				return false
			}
			v, ok := pricing.CustomUnitPrice(updates[0].Attributes)
			return ok && v == "80.00"
		})).Return(refreshed, nil)

	cart, totals, err := svc.LoadCart(context.Background(), "gid://shopify/Cart/abc")

	require.NoError(t, err)
	assert.Equal(t, refreshed, cart)
	assert.Equal(t, 160.00, totals.CustomSubtotal)
	assert.Equal(t, 200.00, totals.RegularSubtotal)
	assert.Equal(t, 40.00, totals.TotalSavings)
	mockAPI.AssertExpectations(t)
}

func TestRefreshCartPricing_NoChangesSkipsUpdate(t *testing.T) {
	mockAPI := new(MockStorefrontAPI)
	svc := NewCartService(mockAPI, "USD", nil)

	cart := testCart(domain.CartLine{
		ID:       "line-1",
		Quantity: 1,
		Attributes: []domain.Attribute{
			{Key: pricing.AttrCustomUnitPrice, Value: "80.00"},
			{Key: pricing.AttrOriginalUnitPrice, Value: "100.00"},
			{Key: pricing.AttrDiscountType, Value: "percentage"},
		},
		Merchandise: domain.Merchandise{
			ID:      "gid://shopify/ProductVariant/1",
			Product: domain.ProductSummary{Handle: "widget"},
		},
	})

	mockAPI.On("GetProductByHandle", mock.Anything, "widget").
		Return(pricedProduct("widget", "gid://shopify/ProductVariant/1", "100.00", "20"), nil)

	got, err := svc.RefreshCartPricing(context.Background(), cart)

	require.NoError(t, err)
	assert.Equal(t, cart, got)
	mockAPI.AssertNotCalled(t, "CartLinesUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshCartPricing_DeduplicatesHandles(t *testing.T) {
	mockAPI := new(MockStorefrontAPI)
	svc := NewCartService(mockAPI, "USD", nil)

	merch := func(variantID string) domain.Merchandise {
		return domain.Merchandise{
			ID:      variantID,
			Product: domain.ProductSummary{Handle: "widget"},
		}
	}
	cart := testCart(
		domain.CartLine{ID: "line-1", Quantity: 1, Merchandise: merch("gid://shopify/ProductVariant/1")},
		domain.CartLine{ID: "line-2", Quantity: 1, Merchandise: merch("gid://shopify/ProductVariant/2")},
	)

	product := pricedProduct("widget", "gid://shopify/ProductVariant/1", "100.00", "20")
	mockAPI.On("GetProductByHandle", mock.Anything, "widget").Return(product, nil).Once()
	mockAPI.On("CartLinesUpdate", mock.Anything, cart.ID, mock.Anything).Return(cart, nil)

	_, err := svc.RefreshCartPricing(context.Background(), cart)

	require.NoError(t, err)
	mockAPI.AssertExpectations(t)
}

func TestRefreshCartPricing_LookupFailureLeavesLineUntouched(t *testing.T) {
	mockAPI := new(MockStorefrontAPI)
	svc := NewCartService(mockAPI, "USD", nil)

	cart := testCart(domain.CartLine{
		ID:       "line-1",
		Quantity: 1,
		Attributes: []domain.Attribute{
			{Key: pricing.AttrCustomUnitPrice, Value: "80.00"},
		},
		Merchandise: domain.Merchandise{
			ID:      "gid://shopify/ProductVariant/1",
			Product: domain.ProductSummary{Handle: "widget"},
		},
	})

	mockAPI.On("GetProductByHandle", mock.Anything, "widget").
		Return(nil, stderrors.New("upstream error"))

	got, err := svc.RefreshCartPricing(context.Background(), cart)

	require.NoError(t, err)
	assert.Equal(t, cart, got)
	mockAPI.AssertNotCalled(t, "CartLinesUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshCartPricing_NoCustomPricingPassesThrough(t *testing.T) {
	mockAPI := new(MockStorefrontAPI)
	svc := NewCartService(mockAPI, "USD", nil)

	cart := testCart(domain.CartLine{
		ID:       "line-1",
		Quantity: 1,
		Merchandise: domain.Merchandise{
			ID:      "gid://shopify/ProductVariant/1",
			Product: domain.ProductSummary{Handle: "widget"},
		},
	})

	// Product exists but has no pricing metafields
	product := &domain.Product{
		Handle: "widget",
		Variants: domain.VariantConnection{Nodes: []domain.ProductVariant{
			{ID: "gid://shopify/ProductVariant/1"},
		}},
	}
	mockAPI.On("GetProductByHandle", mock.Anything, "widget").Return(product, nil)

	got, err := svc.RefreshCartPricing(context.Background(), cart)

	require.NoError(t, err)
	assert.Equal(t, cart, got)
	mockAPI.AssertNotCalled(t, "CartLinesUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshCartPricing_EmptyCart(t *testing.T) {
	mockAPI := new(MockStorefrontAPI)
	svc := NewCartService(mockAPI, "USD", nil)

	got, err := svc.RefreshCartPricing(context.Background(), testCart())

	require.NoError(t, err)
	assert.Empty(t, got.Lines.Nodes)

	got, err = svc.RefreshCartPricing(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddLines_CreatesCartWhenNoID(t *testing.T) {
	mockAPI := new(MockStorefrontAPI)
	svc := NewCartService(mockAPI, "USD", nil)

	lines := []domain.CartLineInput{{
		MerchandiseID: "gid://shopify/ProductVariant/1",
		Quantity:      1,
		Attributes:    []domain.Attribute{{Key: pricing.AttrCustomUnitPrice, Value: "80.5"}},
	}}
	created := testCart()

	// Price attribute is normalized to two decimals before the mutation
	mockAPI.On("CartCreate", mock.Anything, mock.MatchedBy(func(got []domain.CartLineInput) bool {
		if len(got) != 1 {
			return false
		}
		v, ok := pricing.CustomUnitPrice(got[0].Attributes)
		return ok && v == "80.50"
	})).Return(created, nil)

	cart, err := svc.AddLines(context.Background(), "", lines)

	require.NoError(t, err)
	assert.Equal(t, created, cart)
	mockAPI.AssertExpectations(t)
}

func TestAddLines_AddsToExistingCart(t *testing.T) {
	mockAPI := new(MockStorefrontAPI)
	svc := NewCartService(mockAPI, "USD", nil)

	lines := []domain.CartLineInput{{MerchandiseID: "gid://shopify/ProductVariant/1", Quantity: 1}}
	mockAPI.On("CartLinesAdd", mock.Anything, "cart-1", lines).Return(testCart(), nil)

	_, err := svc.AddLines(context.Background(), "cart-1", lines)

	require.NoError(t, err)
	mockAPI.AssertNotCalled(t, "CartCreate", mock.Anything, mock.Anything)
}
