package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

func testStorefrontClient(t *testing.T, handler http.HandlerFunc) *StorefrontClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewStorefrontClient(config.ShopifyConfig{
		ShopDomain:      "test-shop.myshopify.com",
		StorefrontToken: "sf-token",
		APIVersion:      "2024-10",
	}, "custom", nil).WithEndpoint(server.URL)
}

func graphqlResponse(t *testing.T, w http.ResponseWriter, data string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(`{"data":` + data + `}`))
	require.NoError(t, err)
}

func TestStorefrontClient_GetCart(t *testing.T) {
	client := testStorefrontClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sf-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req GraphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gid://shopify/Cart/abc", req.Variables["cartId"])

		graphqlResponse(t, w, `{"cart":{
			"id":"gid://shopify/Cart/abc",
			"totalQuantity":2,
			"lines":{"nodes":[{
				"id":"line-1",
				"quantity":2,
				"attributes":[{"key":"_custom_unit_price","value":"80.00"}],
				"cost":{"amountPerQuantity":{"amount":"100.0","currencyCode":"USD"}},
				"merchandise":{"id":"gid://shopify/ProductVariant/1","product":{"handle":"widget"}}
			}]}
		}}`)
	})

	cart, err := client.GetCart(context.Background(), "gid://shopify/Cart/abc")

	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/abc", cart.ID)
	require.Len(t, cart.Lines.Nodes, 1)
	assert.Equal(t, "widget", cart.Lines.Nodes[0].Merchandise.Product.Handle)
	assert.Equal(t, "80.00", cart.Lines.Nodes[0].Attributes[0].Value)
}

func TestStorefrontClient_GetCart_NotFound(t *testing.T) {
	client := testStorefrontClient(t, func(w http.ResponseWriter, r *http.Request) {
		graphqlResponse(t, w, `{"cart":null}`)
	})

	_, err := client.GetCart(context.Background(), "gid://shopify/Cart/gone")

	var notFound *errors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "cart", notFound.Resource)
}

func TestStorefrontClient_CartLinesUpdate_UserErrors(t *testing.T) {
	client := testStorefrontClient(t, func(w http.ResponseWriter, r *http.Request) {
		graphqlResponse(t, w, `{"cartLinesUpdate":{
			"cart":null,
			"userErrors":[{"field":["lines","0","quantity"],"message":"Quantity must be positive"}]
		}}`)
	})

	_, err := client.CartLinesUpdate(context.Background(), "cart-1", []domain.CartLineInput{
		{ID: "line-1", Quantity: -1},
	})

	var validation *errors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Quantity must be positive", validation.Fields["quantity"])
}

func TestStorefrontClient_CartLinesUpdate_SendsLineIDsAndAttributes(t *testing.T) {
	var captured GraphQLRequest
	client := testStorefrontClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		graphqlResponse(t, w, `{"cartLinesUpdate":{"cart":{"id":"cart-1"},"userErrors":[]}}`)
	})

	_, err := client.CartLinesUpdate(context.Background(), "cart-1", []domain.CartLineInput{{
		ID:       "line-1",
		Quantity: 2,
		Attributes: []domain.Attribute{
			{Key: "_custom_unit_price", Value: "80.00"},
		},
	}})

	require.NoError(t, err)
	lines := captured.Variables["lines"].([]interface{})
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.Equal(t, "line-1", line["id"])
	assert.NotContains(t, line, "merchandiseId")
	attrs := line["attributes"].([]interface{})
	require.Len(t, attrs, 1)
}

func TestStorefrontClient_GetProductByHandle_PassesNamespace(t *testing.T) {
	client := testStorefrontClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req GraphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "custom", req.Variables["namespace"])
		assert.Equal(t, "widget", req.Variables["handle"])

		graphqlResponse(t, w, `{"product":{
			"id":"gid://shopify/Product/1",
			"title":"Widget",
			"handle":"widget",
			"customPrice":{"namespace":"custom","key":"custom_price","type":"money","value":"{\"amount\":\"100.00\",\"currencyCode\":\"USD\"}"},
			"variants":{"nodes":[{"id":"gid://shopify/ProductVariant/1","title":"Default Title"}]}
		}}`)
	})

	product, err := client.GetProductByHandle(context.Background(), "widget")

	require.NoError(t, err)
	require.NotNil(t, product.CustomPrice)
	assert.Equal(t, "money", product.CustomPrice.Type)
	require.Len(t, product.Variants.Nodes, 1)
}

func TestStorefrontClient_TopLevelGraphQLErrors(t *testing.T) {
	client := testStorefrontClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"Throttled"}]}`))
	})

	_, err := client.GetCart(context.Background(), "cart-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestStorefrontClient_HTTPError(t *testing.T) {
	client := testStorefrontClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetCart(context.Background(), "cart-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestStorefrontClient_GetQuickViewSettings(t *testing.T) {
	client := testStorefrontClient(t, func(w http.ResponseWriter, r *http.Request) {
		graphqlResponse(t, w, `{"metaobject":{
			"showTitle":{"value":"true"},
			"showPrice":{"value":"true"},
			"buttonLabel":{"value":"Quick view"}
		}}`)
	})

	settings, err := client.GetQuickViewSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Quick view", settings["buttonLabel"])
	assert.Equal(t, "true", settings["showPrice"])
}

func TestNormalizeShopDomain(t *testing.T) {
	assert.Equal(t, "shop.myshopify.com", normalizeShopDomain("https://shop.myshopify.com/"))
	assert.Equal(t, "shop.myshopify.com", normalizeShopDomain("http://shop.myshopify.com"))
	assert.Equal(t, "shop.myshopify.com", normalizeShopDomain("shop.myshopify.com"))
}
