package cachemanager

import (
	"context"
	"time"

	"github.com/zjrosen/advcomment/internal/log"
)

// ReadThroughCache fronts a compute function with a CacheManager: on a miss
// the value is computed from input and stored under key. Failed computations
// are not cached.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache   CacheManager[K, V]
	compute func(ctx context.Context, input I) (V, error)
	bypass  bool
}

// NewReadThroughCache wraps compute. When bypass is set every call computes.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	compute func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:   cache,
		compute: compute,
		bypass:  bypass,
	}
}

// Get returns the cached value for key, computing it on a miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.load(ctx, key, input, ttl, r.cache.Get)
}

// GetWithRefresh is Get, but a hit also extends the entry's TTL.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.load(ctx, key, input, ttl, func(ctx context.Context, key K) (V, bool) {
		return r.cache.GetWithRefresh(ctx, key, ttl)
	})
}

func (r *ReadThroughCache[K, V, I]) load(
	ctx context.Context,
	key K,
	input I,
	ttl time.Duration,
	lookup func(context.Context, K) (V, bool),
) (V, error) {
	if r.bypass {
		return r.compute(ctx, input)
	}

	if value, ok := lookup(ctx, key); ok {
		return value, nil
	}

	value, err := r.compute(ctx, input)
	if err != nil {
		log.ErrorErr(log.CatCache, "compute failed", err, "key", key)
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)

	return value, nil
}
