package markdown

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zjrosen/slidedeck/internal/cachemanager"
	"github.com/zjrosen/slidedeck/internal/deck"
	"github.com/zjrosen/slidedeck/internal/log"
)

// SlideCache renders slide bodies once per slide id, width and style.
// It is not safe for concurrent use.
type SlideCache struct {
	style     string
	ttl       time.Duration
	renderers map[int]*Renderer
	cache     *cachemanager.ReadThroughCache[string, string, renderRequest]
}

type renderRequest struct {
	width int
	body  string
}

// NewSlideCache renders through cache. Entries live for ttl; zero uses the
// cache's default expiration.
func NewSlideCache(cache cachemanager.CacheManager[string, string], style string, ttl time.Duration) *SlideCache {
	if style == "" {
		style = DefaultStyle
	}
	c := &SlideCache{
		style:     style,
		ttl:       ttl,
		renderers: make(map[int]*Renderer),
	}
	c.cache = cachemanager.NewReadThroughCache(cache, c.render, false)
	return c
}

// Key returns the cache key for id rendered at width.
func (c *SlideCache) Key(id deck.SlideID, width int) string {
	return fmt.Sprintf("%s|%d|%s", id, width, c.style)
}

// Render returns the rendered body of slide id at width.
func (c *SlideCache) Render(ctx context.Context, id deck.SlideID, body string, width int) (string, error) {
	return c.cache.GetWithRefresh(ctx, c.Key(id, width), renderRequest{width: width, body: body}, c.ttl)
}

// Invalidate drops every cached rendering of id.
func (c *SlideCache) Invalidate(ctx context.Context, id deck.SlideID) int {
	prefix := string(id) + "|"
	n := c.cache.Invalidate(ctx, func(key string) bool { return strings.HasPrefix(key, prefix) })
	if n > 0 {
		log.Debug(log.CatCache, "invalidated slide renders", "slide", id, "entries", n)
	}
	return n
}

// Stats returns cache hits and misses.
func (c *SlideCache) Stats() (hits, misses int64) {
	return c.cache.Stats()
}

func (c *SlideCache) render(_ context.Context, req renderRequest) (string, error) {
	r, ok := c.renderers[req.width]
	if !ok {
		var err error
		r, err = New(req.width, c.style)
		if err != nil {
			return "", fmt.Errorf("creating markdown renderer: %w", err)
		}
		c.renderers[req.width] = r
	}
	out, err := r.Render(req.body)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
