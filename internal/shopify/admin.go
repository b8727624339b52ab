package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/pkg/errors"
)

// AdminClient talks to the Shopify Admin GraphQL API. Only draft order
// creation and the invoice URL re-fetch go through it; the token never
// reaches the client side.
type AdminClient struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *zap.Logger

	endpoint string
}

// NewAdminClient creates a new Admin API client
func NewAdminClient(cfg config.ShopifyConfig, logger *zap.Logger) *AdminClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminClient{
		shopDomain:  normalizeShopDomain(cfg.ShopDomain),
		accessToken: cfg.AdminToken,
		apiVersion:  cfg.APIVersion,
		httpClient:  newHTTPClient(),
		logger:      logger,
	}
}

// WithEndpoint points the client at an explicit URL instead of the shop
// domain. Test hook.
func (c *AdminClient) WithEndpoint(url string) *AdminClient {
	c.endpoint = url
	return c
}

func (c *AdminClient) url() string {
	if c.endpoint != "" {
		return c.endpoint
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.shopDomain, c.apiVersion)
}

// Execute executes a GraphQL query/mutation against the Admin API
func (c *AdminClient) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	headers := map[string]string{
		"X-Shopify-Access-Token": c.accessToken,
	}
	return execute(ctx, c.httpClient, c.url(), headers, query, variables)
}

// CreateDraftOrder submits a single draftOrderCreate mutation. Payload user
// errors abort the attempt as a whole; no partially created draft order is
// treated as success.
func (c *AdminClient) CreateDraftOrder(ctx context.Context, input DraftOrderInput) (*DraftOrder, error) {
	resp, err := c.Execute(ctx, DraftOrderCreateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return nil, &errors.ErrSubmission{Message: fmt.Sprintf("draft order create failed: %v", err)}
	}

	var result struct {
		DraftOrderCreate struct {
			DraftOrder *DraftOrder `json:"draftOrder"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, &errors.ErrSubmission{Message: fmt.Sprintf("parse draft order response: %v", err)}
	}

	if len(result.DraftOrderCreate.UserErrors) > 0 {
		fieldErrs := make([]errors.FieldError, len(result.DraftOrderCreate.UserErrors))
		for i, ue := range result.DraftOrderCreate.UserErrors {
			fieldErrs[i] = errors.FieldError{Field: ue.Field, Message: ue.Message}
		}
		return nil, &errors.ErrSubmission{Message: "draft order rejected", UserErrors: fieldErrs}
	}
	if result.DraftOrderCreate.DraftOrder == nil || result.DraftOrderCreate.DraftOrder.ID == "" {
		return nil, &errors.ErrSubmission{Message: "draft order create returned no draft order"}
	}

	c.logger.Info("Created draft order",
		zap.String("draft_order_id", result.DraftOrderCreate.DraftOrder.ID),
		zap.String("name", result.DraftOrderCreate.DraftOrder.Name),
	)
	return result.DraftOrderCreate.DraftOrder, nil
}

// GetDraftOrder re-fetches a draft order by GID, used when the create
// response had no invoice URL yet.
func (c *AdminClient) GetDraftOrder(ctx context.Context, id string) (*DraftOrder, error) {
	resp, err := c.Execute(ctx, DraftOrderByIDQuery, map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get draft order: %w", err)
	}
	var result struct {
		Node *DraftOrder `json:"node"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse draft order: %w", err)
	}
	if result.Node == nil || result.Node.ID == "" {
		return nil, &errors.ErrNotFound{Resource: "draft order", ID: id}
	}
	return result.Node, nil
}
