package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"shopify-product-export/internal/domain"
	"shopify-product-export/internal/ports"
	experrors "shopify-product-export/pkg/errors"

	"github.com/rs/zerolog"
)

// RESTClient writes to one target store's catalog over the admin REST API.
// All calls authenticate with the store's access token header.
type RESTClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      zerolog.Logger
}

// RESTClientFactory builds REST clients for resolved target stores.
type RESTClientFactory struct {
	apiVersion string
	httpClient *http.Client
	logger     zerolog.Logger

	// baseURLOverride replaces the https://<shop> prefix, for tests.
	baseURLOverride string
}

// NewRESTClientFactory creates the factory. httpClient may be nil.
func NewRESTClientFactory(apiVersion string, httpClient *http.Client, logger zerolog.Logger) *RESTClientFactory {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTClientFactory{
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ClientFor builds a client bound to one target store's domain and token.
func (f *RESTClientFactory) ClientFor(store *domain.TargetStore) ports.TargetClient {
	base := f.baseURLOverride
	if base == "" {
		base = "https://" + store.Shop
	}
	return &RESTClient{
		baseURL:     fmt.Sprintf("%s/admin/api/%s", base, f.apiVersion),
		accessToken: store.AccessToken,
		httpClient:  f.httpClient,
		logger:      f.logger.With().Str("shop", store.Shop).Logger(),
	}
}

// do executes one REST call and returns the status code and raw body.
func (c *RESTClient) do(ctx context.Context, method, path string, payload interface{}) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

type productListResponse struct {
	Products []*domain.TargetProductRef `json:"products"`
}

// SearchProductsByTitle returns up to limit products whose title exactly
// matches the given title.
func (c *RESTClient) SearchProductsByTitle(ctx context.Context, title string, limit int) ([]*domain.TargetProductRef, error) {
	path := fmt.Sprintf("/products.json?title=%s&limit=%d", url.QueryEscape(title), limit)

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("product search failed: status %d: %s", status, string(body))
	}

	var data productListResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode product search response: %w", err)
	}
	return data.Products, nil
}

// HasAnyProduct probes whether the target catalog contains any product at all.
func (c *RESTClient) HasAnyProduct(ctx context.Context) (bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/products.json?limit=1", nil)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("catalog probe failed: status %d: %s", status, string(body))
	}

	var data productListResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return false, fmt.Errorf("failed to decode catalog probe response: %w", err)
	}
	return len(data.Products) > 0, nil
}

type restMetafield struct {
	Namespace   string          `json:"namespace"`
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
}

type metafieldsResponse struct {
	Metafields []restMetafield `json:"metafields"`
}

// GetProductMetafields returns all metafields of a target product.
func (c *RESTClient) GetProductMetafields(ctx context.Context, productID int64) ([]domain.Metafield, error) {
	path := fmt.Sprintf("/products/%d/metafields.json", productID)

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("metafield fetch failed: status %d: %s", status, string(body))
	}

	var data metafieldsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode metafields response: %w", err)
	}

	metafields := make([]domain.Metafield, 0, len(data.Metafields))
	for _, mf := range data.Metafields {
		metafields = append(metafields, domain.Metafield{
			Namespace:   mf.Namespace,
			Key:         mf.Key,
			Value:       rawValueToString(mf.Value),
			Type:        mf.Type,
			Description: mf.Description,
		})
	}
	return metafields, nil
}

type productEnvelope struct {
	Product *domain.TargetProductRef `json:"product"`
}

// CreateProduct creates a product in the target catalog.
func (c *RESTClient) CreateProduct(ctx context.Context, payload *domain.ProductPayload) (*domain.TargetProductRef, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/products.json", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		c.logger.Error().Int("status", status).Str("body", string(body)).Msg("Failed to create product")
		return nil, &experrors.ErrCreateFailed{Status: status, Body: string(body)}
	}

	var data productEnvelope
	if err := json.Unmarshal(body, &data); err != nil || data.Product == nil {
		return nil, &experrors.ErrCreateFailed{Status: status, Body: "create response missing product"}
	}

	c.logger.Info().Int64("productId", data.Product.ID).Msg("Created product in target store")
	return data.Product, nil
}

// UpdateProduct updates an existing product in the target catalog.
func (c *RESTClient) UpdateProduct(ctx context.Context, productID int64, payload *domain.ProductPayload) (*domain.TargetProductRef, error) {
	path := fmt.Sprintf("/products/%d.json", productID)

	status, body, err := c.do(ctx, http.MethodPut, path, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		c.logger.Error().Int("status", status).Int64("productId", productID).Str("body", string(body)).Msg("Failed to update product")
		return nil, &experrors.ErrUpdateFailed{Status: status, Body: string(body)}
	}

	var data productEnvelope
	if err := json.Unmarshal(body, &data); err != nil || data.Product == nil {
		return nil, &experrors.ErrUpdateFailed{Status: status, Body: "update response missing product"}
	}

	c.logger.Info().Int64("productId", data.Product.ID).Msg("Updated product in target store")
	return data.Product, nil
}

// CreateProductMetafield attaches one metafield to a target product.
func (c *RESTClient) CreateProductMetafield(ctx context.Context, productID int64, metafield domain.Metafield) error {
	path := fmt.Sprintf("/products/%d/metafields.json", productID)

	metafieldType := metafield.Type
	if metafieldType == "" {
		metafieldType = domain.CorrelationType
	}
	payload := map[string]interface{}{
		"metafield": map[string]interface{}{
			"namespace":   metafield.Namespace,
			"key":         metafield.Key,
			"value":       metafield.Value,
			"type":        metafieldType,
			"description": metafield.Description,
		},
	}

	status, body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("metafield create failed: status %d: %s", status, string(body))
	}
	return nil
}

// rawValueToString renders a REST metafield value as a string. Values written
// by this engine are strings, but target stores can hold numeric or JSON
// values on unrelated metafields.
func rawValueToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

var (
	_ ports.TargetClient        = (*RESTClient)(nil)
	_ ports.TargetClientFactory = (*RESTClientFactory)(nil)
)
