// Package cachemanager provides typed caches over patrickmn/go-cache and a
// read-through wrapper that fills them on a miss.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value cache with per-entry TTLs.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K)
	DeleteFunc(ctx context.Context, match func(key K) bool) int
	Flush(ctx context.Context)
	Count() int
}
