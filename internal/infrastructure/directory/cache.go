package directory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shopify-product-export/internal/domain"
	"shopify-product-export/internal/ports"
	experrors "shopify-product-export/pkg/errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "directory:store:"

// StoreCache is the subset of redis commands the wrapper uses. *redis.Client
// satisfies it.
type StoreCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedDirectory wraps a directory client with a short-lived Redis cache.
// Resolution failures of the credential kind evict the cached entry so the
// next call re-reads the directory. ListStores always passes through.
type CachedDirectory struct {
	inner  ports.DirectoryClient
	rdb    StoreCache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedDirectory creates the caching wrapper.
func NewCachedDirectory(inner ports.DirectoryClient, rdb StoreCache, ttl time.Duration, logger zerolog.Logger) *CachedDirectory {
	return &CachedDirectory{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// ListStores passes through to the directory.
func (c *CachedDirectory) ListStores(ctx context.Context) ([]*domain.TargetStore, error) {
	return c.inner.ListStores(ctx)
}

// ResolveStore returns a cached entry when present, otherwise resolves through
// the directory and caches the result for the configured TTL.
func (c *CachedDirectory) ResolveStore(ctx context.Context, storeID string) (*domain.TargetStore, error) {
	key := cacheKeyPrefix + storeID

	cached, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var store domain.TargetStore
		if err := json.Unmarshal(cached, &store); err == nil {
			c.logger.Debug().Str("storeId", storeID).Msg("Directory cache hit")
			return &store, nil
		}
		// Unreadable entry, drop it and fall through to the directory.
		c.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn().Err(err).Str("storeId", storeID).Msg("Directory cache read failed, falling back to directory")
	}

	store, err := c.inner.ResolveStore(ctx, storeID)
	if err != nil {
		var credMissing *experrors.ErrCredentialMissing
		if errors.As(err, &credMissing) {
			c.Invalidate(ctx, storeID)
		}
		return nil, err
	}

	if payload, err := json.Marshal(store); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("storeId", storeID).Msg("Failed to cache directory entry")
		}
	}

	return store, nil
}

// Invalidate evicts a store's cached credentials.
func (c *CachedDirectory) Invalidate(ctx context.Context, storeID string) {
	if err := c.rdb.Del(ctx, cacheKeyPrefix+storeID).Err(); err != nil {
		c.logger.Warn().Err(err).Str("storeId", storeID).Msg("Failed to invalidate directory cache entry")
	}
}

var (
	_ ports.DirectoryClient      = (*CachedDirectory)(nil)
	_ ports.DirectoryInvalidator = (*CachedDirectory)(nil)
)
