package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// StorefrontClient talks to the Shopify Storefront GraphQL API: cart state,
// products and collections with custom pricing metafields, settings.
type StorefrontClient struct {
	shopDomain string
	token      string
	apiVersion string
	namespace  string
	httpClient *http.Client
	logger     *zap.Logger

	// endpoint overrides shopDomain/apiVersion when set; used in tests.
	endpoint string
}

// NewStorefrontClient creates a new Storefront API client
func NewStorefrontClient(cfg config.ShopifyConfig, namespace string, logger *zap.Logger) *StorefrontClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorefrontClient{
		shopDomain: normalizeShopDomain(cfg.ShopDomain),
		token:      cfg.StorefrontToken,
		apiVersion: cfg.APIVersion,
		namespace:  namespace,
		httpClient: newHTTPClient(),
		logger:     logger,
	}
}

// WithEndpoint points the client at an explicit URL instead of the shop
// domain. Test hook.
func (c *StorefrontClient) WithEndpoint(url string) *StorefrontClient {
	c.endpoint = url
	return c
}

func (c *StorefrontClient) url() string {
	if c.endpoint != "" {
		return c.endpoint
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.shopDomain, c.apiVersion)
}

// Execute executes a GraphQL query/mutation against the Storefront API
func (c *StorefrontClient) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	headers := map[string]string{
		"X-Shopify-Storefront-Access-Token": c.token,
	}
	return execute(ctx, c.httpClient, c.url(), headers, query, variables)
}

// GetCart fetches the cart document by its platform-issued id.
func (c *StorefrontClient) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	resp, err := c.Execute(ctx, CartQuery, map[string]interface{}{"cartId": cartID})
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	var result struct {
		Cart *domain.Cart `json:"cart"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse cart response: %w", err)
	}
	if result.Cart == nil {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: cartID}
	}
	return result.Cart, nil
}

// CartCreate creates a cart with the given initial lines.
func (c *StorefrontClient) CartCreate(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error) {
	input := map[string]interface{}{}
	if len(lines) > 0 {
		input["lines"] = cartLineInputs(lines, false)
	}
	return c.cartMutation(ctx, CartCreateMutation, "cartCreate", map[string]interface{}{"input": input})
}

// CartLinesAdd adds lines to an existing cart.
func (c *StorefrontClient) CartLinesAdd(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	return c.cartMutation(ctx, CartLinesAddMutation, "cartLinesAdd", map[string]interface{}{
		"cartId": cartID,
		"lines":  cartLineInputs(lines, false),
	})
}

// CartLinesUpdate updates quantity or attributes on existing lines.
func (c *StorefrontClient) CartLinesUpdate(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	return c.cartMutation(ctx, CartLinesUpdateMutation, "cartLinesUpdate", map[string]interface{}{
		"cartId": cartID,
		"lines":  cartLineInputs(lines, true),
	})
}

// CartLinesRemove removes lines from a cart.
func (c *StorefrontClient) CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	return c.cartMutation(ctx, CartLinesRemoveMutation, "cartLinesRemove", map[string]interface{}{
		"cartId":  cartID,
		"lineIds": lineIDs,
	})
}

// CartDiscountCodesUpdate replaces the cart's discount codes.
func (c *StorefrontClient) CartDiscountCodesUpdate(ctx context.Context, cartID string, codes []string) (*domain.Cart, error) {
	return c.cartMutation(ctx, CartDiscountCodesUpdateMutation, "cartDiscountCodesUpdate", map[string]interface{}{
		"cartId":        cartID,
		"discountCodes": codes,
	})
}

// CartGiftCardCodesUpdate applies gift card codes to the cart.
func (c *StorefrontClient) CartGiftCardCodesUpdate(ctx context.Context, cartID string, codes []string) (*domain.Cart, error) {
	return c.cartMutation(ctx, CartGiftCardCodesUpdateMutation, "cartGiftCardCodesUpdate", map[string]interface{}{
		"cartId":        cartID,
		"giftCardCodes": codes,
	})
}

// CartBuyerIdentityUpdate updates buyer identity fields on the cart.
func (c *StorefrontClient) CartBuyerIdentityUpdate(ctx context.Context, cartID string, buyer domain.BuyerIdentity) (*domain.Cart, error) {
	identity := map[string]interface{}{}
	if buyer.Email != "" {
		identity["email"] = buyer.Email
	}
	if buyer.Phone != "" {
		identity["phone"] = buyer.Phone
	}
	if buyer.CountryCode != "" {
		identity["countryCode"] = buyer.CountryCode
	}
	return c.cartMutation(ctx, CartBuyerIdentityUpdateMutation, "cartBuyerIdentityUpdate", map[string]interface{}{
		"cartId":        cartID,
		"buyerIdentity": identity,
	})
}

// GetProductByHandle fetches a product with pricing metafields and variants.
func (c *StorefrontClient) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	resp, err := c.Execute(ctx, ProductPricingQuery, map[string]interface{}{
		"handle":    handle,
		"namespace": c.namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", handle, err)
	}
	var result struct {
		Product *domain.Product `json:"product"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse product response: %w", err)
	}
	if result.Product == nil {
		return nil, &errors.ErrNotFound{Resource: "product", ID: handle}
	}
	return result.Product, nil
}

// CollectionProductsPage is one page of a collection's product listing.
type CollectionProductsPage struct {
	CollectionTitle string
	Products        []domain.Product
	PageInfo        domain.PageInfo
}

// GetCollectionProducts lists products of a collection with cursor pagination.
func (c *StorefrontClient) GetCollectionProducts(ctx context.Context, handle string, first int, after string) (*CollectionProductsPage, error) {
	variables := map[string]interface{}{
		"handle":    handle,
		"namespace": c.namespace,
		"first":     first,
	}
	if after != "" {
		variables["after"] = after
	}
	resp, err := c.Execute(ctx, CollectionProductsQuery, variables)
	if err != nil {
		return nil, fmt.Errorf("get collection %q: %w", handle, err)
	}
	var result struct {
		Collection *struct {
			Title    string `json:"title"`
			Products struct {
				PageInfo domain.PageInfo  `json:"pageInfo"`
				Nodes    []domain.Product `json:"nodes"`
			} `json:"products"`
		} `json:"collection"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse collection response: %w", err)
	}
	if result.Collection == nil {
		return nil, &errors.ErrNotFound{Resource: "collection", ID: handle}
	}
	return &CollectionProductsPage{
		CollectionTitle: result.Collection.Title,
		Products:        result.Collection.Products.Nodes,
		PageInfo:        result.Collection.Products.PageInfo,
	}, nil
}

// GetQuickViewSettings fetches the quick-view settings metaobject and
// flattens its fields into a string map. A missing metaobject yields an
// empty map, not an error.
func (c *StorefrontClient) GetQuickViewSettings(ctx context.Context) (map[string]string, error) {
	resp, err := c.Execute(ctx, QuickViewSettingsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("get quick view settings: %w", err)
	}
	var result struct {
		Metaobject map[string]*struct {
			Value string `json:"value"`
		} `json:"metaobject"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse settings response: %w", err)
	}
	settings := make(map[string]string, len(result.Metaobject))
	for key, field := range result.Metaobject {
		if field != nil {
			settings[key] = field.Value
		}
	}
	return settings, nil
}

// cartMutation executes a cart mutation and parses the payload keyed by the
// mutation name. Payload userErrors become validation errors.
func (c *StorefrontClient) cartMutation(ctx context.Context, mutation, payloadKey string, variables map[string]interface{}) (*domain.Cart, error) {
	resp, err := c.Execute(ctx, mutation, variables)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", payloadKey, err)
	}

	var payloads map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &payloads); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", payloadKey, err)
	}
	raw, ok := payloads[payloadKey]
	if !ok {
		return nil, fmt.Errorf("%s: missing payload in response", payloadKey)
	}

	var result struct {
		Cart       *domain.Cart `json:"cart"`
		UserErrors []UserError  `json:"userErrors"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse %s payload: %w", payloadKey, err)
	}
	if len(result.UserErrors) > 0 {
		fields := make(map[string]string, len(result.UserErrors))
		for _, ue := range result.UserErrors {
			key := payloadKey
			if len(ue.Field) > 0 {
				key = ue.Field[len(ue.Field)-1]
			}
			fields[key] = ue.Message
		}
		return nil, &errors.ErrValidation{Message: payloadKey + " rejected by platform", Fields: fields}
	}
	if result.Cart == nil {
		return nil, fmt.Errorf("%s: no cart in response", payloadKey)
	}
	return result.Cart, nil
}

// cartLineInputs converts line inputs to mutation variables. Update lines
// carry the line id; add/create lines carry the merchandise id.
func cartLineInputs(lines []domain.CartLineInput, update bool) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(lines))
	for _, line := range lines {
		entry := map[string]interface{}{
			"quantity": line.Quantity,
		}
		if update {
			entry["id"] = line.ID
		} else {
			entry["merchandiseId"] = line.MerchandiseID
		}
		if len(line.Attributes) > 0 {
			attrs := make([]map[string]string, 0, len(line.Attributes))
			for _, a := range line.Attributes {
				attrs = append(attrs, map[string]string{"key": a.Key, "value": a.Value})
			}
			entry["attributes"] = attrs
		}
		out = append(out, entry)
	}
	return out
}
