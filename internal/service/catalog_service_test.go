package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/shopify"
	"github.com/jafarshop/storefront/pkg/errors"
)

// MockCatalogAPI is a mock for the CatalogAPI interface
type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCatalogAPI) GetCollectionProducts(ctx context.Context, handle string, first int, after string) (*shopify.CollectionProductsPage, error) {
	args := m.Called(ctx, handle, first, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.CollectionProductsPage), args.Error(1)
}

func (m *MockCatalogAPI) GetQuickViewSettings(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func TestGetProduct_AnnotatesVariantPrices(t *testing.T) {
	mockAPI := new(MockCatalogAPI)
	svc := NewCatalogService(mockAPI, "USD", nil)

	product := pricedProduct("widget", "gid://shopify/ProductVariant/1", "100.00", "20")
	mockAPI.On("GetProductByHandle", mock.Anything, "widget").Return(product, nil)

	view, err := svc.GetProduct(context.Background(), "widget")

	require.NoError(t, err)
	assert.Equal(t, "widget", view.Product.Handle)
	// Product level has no metafields, only the variant does
	assert.Nil(t, view.CustomPrice)
	require.Contains(t, view.VariantPrices, "gid://shopify/ProductVariant/1")
	assert.Equal(t, "80.00", view.VariantPrices["gid://shopify/ProductVariant/1"].FinalPrice)
}

func TestGetProduct_CurrencyFromMoneyMetafield(t *testing.T) {
	mockAPI := new(MockCatalogAPI)
	svc := NewCatalogService(mockAPI, "USD", nil)

	product := &domain.Product{
		Handle: "widget",
		CustomPrice: &domain.Metafield{
			Type:  "money",
			Value: `{"amount":"50.00","currencyCode":"EUR"}`,
		},
	}
	mockAPI.On("GetProductByHandle", mock.Anything, "widget").Return(product, nil)

	view, err := svc.GetProduct(context.Background(), "widget")

	require.NoError(t, err)
	require.NotNil(t, view.CustomPrice)
	assert.Equal(t, "EUR", view.CustomPrice.CurrencyCode)
}

func TestGetProduct_NotFound(t *testing.T) {
	mockAPI := new(MockCatalogAPI)
	svc := NewCatalogService(mockAPI, "USD", nil)

	mockAPI.On("GetProductByHandle", mock.Anything, "missing").
		Return(nil, &errors.ErrNotFound{Resource: "product", ID: "missing"})

	_, err := svc.GetProduct(context.Background(), "missing")

	var notFound *errors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestListCollectionProducts_AnnotatesEachProduct(t *testing.T) {
	mockAPI := new(MockCatalogAPI)
	svc := NewCatalogService(mockAPI, "USD", nil)

	priced := *pricedProduct("widget", "gid://shopify/ProductVariant/1", "100.00", "20")
	priced.CustomPrice = &domain.Metafield{
		Type:  "money",
		Value: `{"amount":"100.00","currencyCode":"USD"}`,
	}
	unpriced := domain.Product{Handle: "plain-widget"}

	mockAPI.On("GetCollectionProducts", mock.Anything, "sale", 8, "").
		Return(&shopify.CollectionProductsPage{
			CollectionTitle: "Sale",
			Products:        []domain.Product{priced, unpriced},
			PageInfo:        domain.PageInfo{HasNextPage: true, EndCursor: "cursor-1"},
		}, nil)

	page, err := svc.ListCollectionProducts(context.Background(), "sale", 8, "")

	require.NoError(t, err)
	assert.Equal(t, "Sale", page.CollectionTitle)
	require.Len(t, page.Products, 2)
	require.NotNil(t, page.Products[0].CustomPrice)
	assert.Equal(t, "100.00", page.Products[0].CustomPrice.OriginalPrice)
	assert.Nil(t, page.Products[1].CustomPrice)
	assert.True(t, page.PageInfo.HasNextPage)
}

func TestQuickViewSettings_PassesThrough(t *testing.T) {
	mockAPI := new(MockCatalogAPI)
	svc := NewCatalogService(mockAPI, "USD", nil)

	mockAPI.On("GetQuickViewSettings", mock.Anything).
		Return(map[string]string{"buttonLabel": "Quick view"}, nil)

	settings, err := svc.QuickViewSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Quick view", settings["buttonLabel"])
}
