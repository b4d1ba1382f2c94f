package oracle

import (
	"context"
	"fmt"
	"sync"

	"mathmark/internal/element"
	"mathmark/internal/geom"
	"mathmark/internal/symbolic"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheSize = 512

type cacheKey struct {
	phrase string
	width  float64
	height float64
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s|%gx%g", k.phrase, k.width, k.height)
}

// cacheEntry keeps explicit not-found answers too; a nil box means not found.
type cacheEntry struct {
	box *geom.Rect
}

// Cache memoizes oracle answers by phrase and canvas size. It is bounded by
// LRU eviction and collapses concurrent identical lookups into one call.
type Cache struct {
	mu    sync.Mutex
	lru   *lru.Cache
	group singleflight.Group
}

func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &Cache{lru: lru.New(maxEntries)}
}

func newKey(phrase string, canvas element.CanvasDimensions) cacheKey {
	return cacheKey{phrase: symbolic.Normalize(phrase), width: canvas.Width, height: canvas.Height}
}

// Get reports a cached answer. hit is false when nothing is cached.
func (c *Cache) Get(phrase string, canvas element.CanvasDimensions) (box *geom.Rect, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(newKey(phrase, canvas))
	if !ok {
		return nil, false
	}
	return v.(cacheEntry).box, true
}

// Do returns the cached answer or calls fn once per key across concurrent
// callers. Errors are never cached.
func (c *Cache) Do(phrase string, canvas element.CanvasDimensions, fn func() (*geom.Rect, error)) (*geom.Rect, error) {
	return c.DoContext(context.Background(), phrase, canvas, func(context.Context) (*geom.Rect, error) {
		return fn()
	})
}

// DoContext is Do with per-caller cancellation. The shared call runs on a
// context detached from the first caller's cancellation but keeping its
// deadline, so one caller giving up does not fail the others waiting on the
// same key.
func (c *Cache) DoContext(ctx context.Context, phrase string, canvas element.CanvasDimensions, fn func(context.Context) (*geom.Rect, error)) (*geom.Rect, error) {
	if box, hit := c.Get(phrase, canvas); hit {
		return box, nil
	}
	key := newKey(phrase, canvas)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		shared := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			shared, cancel = context.WithDeadline(shared, deadline)
			defer cancel()
		}
		box, err := fn(shared)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.lru.Add(key, cacheEntry{box: box})
		c.mu.Unlock()
		return box, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*geom.Rect), nil
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}
