package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopify-product-export/internal/config"
	"shopify-product-export/internal/ports"

	"github.com/rs/zerolog"
)

// AdminClient executes GraphQL queries against the source store's admin API.
type AdminClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewAdminClient creates an admin client for the configured source shop.
func NewAdminClient(cfg config.SourceShopConfig, logger zerolog.Logger) *AdminClient {
	return &AdminClient{
		baseURL:     fmt.Sprintf("https://%s/admin/api/%s", cfg.ShopDomain, cfg.APIVersion),
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Execute runs one GraphQL query or mutation. A non-OK HTTP status or
// transport failure is returned as an error; API-level errors are returned in
// the response for the caller to interpret.
func (c *AdminClient) Execute(ctx context.Context, query string, variables map[string]interface{}) (*ports.GraphQLResponse, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql.json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("admin API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var graphQLResp ports.GraphQLResponse
	if err := json.Unmarshal(respBody, &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &graphQLResp, nil
}

var _ ports.AdminClient = (*AdminClient)(nil)
