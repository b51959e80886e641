package cachemanager

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type renderKey string

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[renderKey, string]("render", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "intro:80", "# Intro", 0)

	got, ok := cache.Get(ctx, "intro:80")
	require.True(t, ok)
	require.Equal(t, "# Intro", got)
	require.Equal(t, 1, cache.Count())
}

func TestInMemoryCacheManager_Miss(t *testing.T) {
	cache := NewInMemoryCacheManager[renderKey, string]("render", 0, 0)

	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_WrongTypeIsAMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[renderKey, string]("render", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("intro", 42, DefaultExpiration)

	_, ok := cache.Get(context.Background(), "intro")
	require.False(t, ok)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[renderKey, string]("render", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "intro", "x", 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	_, ok := cache.Get(ctx, "intro")
	require.False(t, ok)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[renderKey, string]("render", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "intro", "x", 50*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	_, ok := cache.GetWithRefresh(ctx, "intro", 200*time.Millisecond)
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = cache.Get(ctx, "intro")
	require.True(t, ok, "refresh extended the ttl")
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[renderKey, string]("render", DefaultExpiration, DefaultCleanupInterval)
	for _, k := range []renderKey{"a", "b", "c"} {
		cache.Set(ctx, k, string(k), 0)
	}

	cache.Delete(ctx, "a", "missing")
	require.Equal(t, 2, cache.Count())

	cache.Flush(ctx)
	require.Zero(t, cache.Count())
}

func TestInMemoryCacheManager_DeleteFunc(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[renderKey, string]("render", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "intro|80|dark", "a", 0)
	cache.Set(ctx, "intro|120|dark", "b", 0)
	cache.Set(ctx, "outro|80|dark", "c", 0)

	removed := cache.DeleteFunc(ctx, func(k renderKey) bool {
		return strings.HasPrefix(string(k), "intro|")
	})

	require.Equal(t, 2, removed)
	_, ok := cache.Get(ctx, "outro|80|dark")
	require.True(t, ok)
}
