package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shopify-product-export/internal/domain"
	"shopify-product-export/internal/ports"
	experrors "shopify-product-export/pkg/errors"

	"github.com/rs/zerolog"
)

// Client talks to the companion onboarding service that holds target store
// credentials. Nothing is cached here: every call hits the directory so that
// credential rotation takes effect immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a directory client. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

type storesResponse struct {
	Stores []*domain.TargetStore `json:"stores"`
}

// ListStores returns every registered target store.
func (c *Client) ListStores(ctx context.Context) ([]*domain.TargetStore, error) {
	url := c.baseURL + "/api/stores"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("Failed to reach store directory")
		return nil, &experrors.ErrDirectoryUnavailable{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("url", url).Msg("Store directory returned non-OK status")
		return nil, &experrors.ErrDirectoryUnavailable{Status: resp.StatusCode}
	}

	var data storesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &experrors.ErrDirectoryUnavailable{Cause: fmt.Errorf("failed to decode stores response: %w", err)}
	}

	c.logger.Debug().Int("count", len(data.Stores)).Msg("Fetched target stores from directory")
	return data.Stores, nil
}

// ResolveStore returns the credentialed entry for one store id. The export
// fails before any write when the entry is missing or lacks credentials.
func (c *Client) ResolveStore(ctx context.Context, storeID string) (*domain.TargetStore, error) {
	stores, err := c.ListStores(ctx)
	if err != nil {
		return nil, err
	}

	for _, store := range stores {
		if store.ID != storeID {
			continue
		}
		if store.AccessToken == "" {
			return nil, &experrors.ErrCredentialMissing{StoreID: storeID, Field: "access token"}
		}
		if store.Shop == "" {
			return nil, &experrors.ErrCredentialMissing{StoreID: storeID, Field: "shop domain"}
		}
		return store, nil
	}

	return nil, &experrors.ErrStoreNotFound{StoreID: storeID}
}

var _ ports.DirectoryClient = (*Client)(nil)
