package ports

import (
	"context"
	"encoding/json"

	"shopify-product-export/internal/domain"
)

// GraphQLError is a single error entry reported by the source admin API.
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// GraphQLResponse is the decoded body of an admin GraphQL call.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// AdminClient is the authenticated query capability against the source store.
// Execute returns a transport error, or a response that may still carry
// API-level errors in Errors.
type AdminClient interface {
	Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error)
}

// SourceCatalog reads product data from the source store through an admin client.
type SourceCatalog interface {
	// FetchDetailedProduct retrieves the full product snapshot (images,
	// variants with selected options, metafields) for one product id.
	FetchDetailedProduct(ctx context.Context, productID string) (*domain.SourceProduct, error)

	// ShopName returns the source shop's display name.
	ShopName(ctx context.Context) (string, error)
}

// SourceCatalogFactory builds a catalog around the admin client a caller
// supplies per export call.
type SourceCatalogFactory interface {
	CatalogFor(admin AdminClient) SourceCatalog
}
