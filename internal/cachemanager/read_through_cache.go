package cachemanager

import (
	"context"
	"sync/atomic"
	"time"
)

// ReadThroughCache answers from the cache and calls fn to fill misses.
// Errors from fn are returned and not cached.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache  CacheManager[K, V]
	fn     func(ctx context.Context, input I) (V, error)
	bypass bool

	hits   atomic.Int64
	misses atomic.Int64
}

// NewReadThroughCache wraps cache. With bypass set every call goes to fn.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, fn: fn, bypass: bypass}
}

// Get returns the value for key, computing it from input on a miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, r.cache.Get)
}

// GetWithRefresh is Get but a hit also restarts the entry's TTL.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, func(ctx context.Context, key K) (V, bool) {
		return r.cache.GetWithRefresh(ctx, key, ttl)
	})
}

func (r *ReadThroughCache[K, V, I]) get(
	ctx context.Context,
	key K,
	input I,
	ttl time.Duration,
	lookup func(ctx context.Context, key K) (V, bool),
) (V, error) {
	if r.bypass {
		return r.fn(ctx, input)
	}
	if v, ok := lookup(ctx, key); ok {
		r.hits.Add(1)
		return v, nil
	}
	r.misses.Add(1)

	v, err := r.fn(ctx, input)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, ttl)
	return v, nil
}

// Invalidate drops every cached entry whose key matches.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, match func(key K) bool) int {
	return r.cache.DeleteFunc(ctx, match)
}

// Stats returns the hit and miss counts since creation.
func (r *ReadThroughCache[K, V, I]) Stats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}
