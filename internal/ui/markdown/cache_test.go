package markdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/cachemanager"
	"github.com/zjrosen/slidedeck/internal/mocks"
)

func newTestCache() *SlideCache {
	store := cachemanager.NewInMemoryCacheManager[string, string]("slides", time.Minute, time.Minute)
	return NewSlideCache(store, "notty", time.Minute)
}

func TestSlideCache_RendersOncePerKey(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	first, err := c.Render(ctx, "intro", "# Hello", 40)
	require.NoError(t, err)
	second, err := c.Render(ctx, "intro", "# Changed but cached", 40)
	require.NoError(t, err)

	require.Contains(t, stripANSI(first), "Hello")
	require.Equal(t, first, second)
	hits, misses := c.Stats()
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(1), misses)
}

func TestSlideCache_WidthIsPartOfKey(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	_, err := c.Render(ctx, "intro", "# Hello", 40)
	require.NoError(t, err)
	_, err = c.Render(ctx, "intro", "# Hello", 60)
	require.NoError(t, err)

	_, misses := c.Stats()
	require.Equal(t, int64(2), misses)
}

func TestSlideCache_Invalidate(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	_, err := c.Render(ctx, "intro", "# Old", 40)
	require.NoError(t, err)
	_, err = c.Render(ctx, "intro", "# Old", 60)
	require.NoError(t, err)
	_, err = c.Render(ctx, "intro-2", "# Other", 40)
	require.NoError(t, err)

	require.Equal(t, 2, c.Invalidate(ctx, "intro"))

	out, err := c.Render(ctx, "intro", "# New", 40)
	require.NoError(t, err)
	require.Contains(t, stripANSI(out), "New")
}

func TestSlideCache_Key(t *testing.T) {
	c := NewSlideCache(mocks.NewMockCacheManager[string, string](t), "", 0)

	require.Equal(t, "intro|80|dark", c.Key("intro", 80))
}

func TestSlideCache_UsesCacheManager(t *testing.T) {
	store := mocks.NewMockCacheManager[string, string](t)
	store.EXPECT().GetWithRefresh(mock.Anything, "intro|40|notty", time.Minute).Return("", false).Once()
	store.EXPECT().Set(mock.Anything, "intro|40|notty", mock.AnythingOfType("string"), time.Minute).Once()
	c := NewSlideCache(store, "notty", time.Minute)

	out, err := c.Render(context.Background(), "intro", "# Hi", 40)

	require.NoError(t, err)
	require.Contains(t, stripANSI(out), "Hi")
}
