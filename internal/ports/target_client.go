package ports

import (
	"context"

	"shopify-product-export/internal/domain"
)

// TargetClient is the REST surface of one target store's catalog.
type TargetClient interface {
	// SearchProductsByTitle returns up to limit products whose title exactly
	// matches the given title.
	SearchProductsByTitle(ctx context.Context, title string, limit int) ([]*domain.TargetProductRef, error)

	// HasAnyProduct reports whether the target catalog contains at least one
	// product.
	HasAnyProduct(ctx context.Context) (bool, error)

	// GetProductMetafields returns all metafields of a target product.
	GetProductMetafields(ctx context.Context, productID int64) ([]domain.Metafield, error)

	// CreateProduct creates a product and returns its reference.
	CreateProduct(ctx context.Context, payload *domain.ProductPayload) (*domain.TargetProductRef, error)

	// UpdateProduct updates an existing product.
	UpdateProduct(ctx context.Context, productID int64, payload *domain.ProductPayload) (*domain.TargetProductRef, error)

	// CreateProductMetafield attaches one metafield to a product.
	CreateProductMetafield(ctx context.Context, productID int64, metafield domain.Metafield) error
}

// TargetClientFactory builds a client for a resolved target store.
type TargetClientFactory interface {
	ClientFor(store *domain.TargetStore) TargetClient
}
