package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/mocks"
)

type renderInput struct {
	Source string
}

func upper(_ context.Context, in renderInput) (string, error) {
	return "<" + in.Source + ">", nil
}

func TestReadThroughCache_Bypass(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	cache := NewReadThroughCache[renderKey, string, renderInput](managerMock, upper, true)

	got, err := cache.Get(context.Background(), "k", renderInput{Source: "a"}, time.Minute)

	require.NoError(t, err)
	require.Equal(t, "<a>", got)
	managerMock.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestReadThroughCache_Hit(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().Get(mock.Anything, renderKey("k")).Return("cached", true).Once()
	cache := NewReadThroughCache[renderKey, string, renderInput](managerMock, upper, false)

	got, err := cache.Get(context.Background(), "k", renderInput{Source: "a"}, time.Minute)

	require.NoError(t, err)
	require.Equal(t, "cached", got)
	hits, misses := cache.Stats()
	require.Equal(t, int64(1), hits)
	require.Zero(t, misses)
}

func TestReadThroughCache_MissFillsCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().Get(mock.Anything, renderKey("k")).Return("", false).Once()
	managerMock.EXPECT().Set(mock.Anything, renderKey("k"), "<a>", time.Minute).Return().Once()
	cache := NewReadThroughCache[renderKey, string, renderInput](managerMock, upper, false)

	got, err := cache.Get(context.Background(), "k", renderInput{Source: "a"}, time.Minute)

	require.NoError(t, err)
	require.Equal(t, "<a>", got)
	_, misses := cache.Stats()
	require.Equal(t, int64(1), misses)
}

func TestReadThroughCache_ErrorIsNotCached(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().Get(mock.Anything, renderKey("k")).Return("", false).Once()
	boom := errors.New("render failed")
	cache := NewReadThroughCache[renderKey, string, renderInput](managerMock,
		func(context.Context, renderInput) (string, error) { return "", boom }, false)

	_, err := cache.Get(context.Background(), "k", renderInput{}, time.Minute)

	require.ErrorIs(t, err, boom)
	managerMock.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_GetWithRefresh(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, renderKey("k"), time.Minute).Return("cached", true).Once()
	cache := NewReadThroughCache[renderKey, string, renderInput](managerMock, upper, false)

	got, err := cache.GetWithRefresh(context.Background(), "k", renderInput{}, time.Minute)

	require.NoError(t, err)
	require.Equal(t, "cached", got)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	inMemory := NewInMemoryCacheManager[renderKey, string]("render", DefaultExpiration, DefaultCleanupInterval)
	cache := NewReadThroughCache[renderKey, string, renderInput](inMemory, upper, false)

	_, err := cache.Get(ctx, "a", renderInput{Source: "a"}, 0)
	require.NoError(t, err)
	_, err = cache.Get(ctx, "b", renderInput{Source: "b"}, 0)
	require.NoError(t, err)

	require.Equal(t, 1, cache.Invalidate(ctx, func(k renderKey) bool { return k == "a" }))
	require.Equal(t, 1, inMemory.Count())
}
