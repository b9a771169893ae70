package ports

import (
	"context"

	"shopify-product-export/internal/domain"
)

// DirectoryClient resolves target stores against the onboarding directory
// service. Resolution happens per export call so directory updates, such as
// token rotation, take effect on the next call.
type DirectoryClient interface {
	// ListStores returns every registered target store.
	ListStores(ctx context.Context) ([]*domain.TargetStore, error)

	// ResolveStore returns the credentialed entry for one store id.
	ResolveStore(ctx context.Context, storeID string) (*domain.TargetStore, error)
}

// DirectoryInvalidator is implemented by caching directory clients; the engine
// calls it when a store's credentials turn out to be stale.
type DirectoryInvalidator interface {
	Invalidate(ctx context.Context, storeID string)
}
