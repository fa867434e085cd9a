package embedprovider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize bounds how many unique query embeddings are kept.
const DefaultCacheSize = 256

// Cached wraps a Provider with an LRU cache of query embeddings and
// singleflight coalescing, so concurrent identical queries (common when
// a search and its retry land back to back) share one upstream call.
type Cached struct {
	inner Provider
	cache *lru.Cache[string, []float32]
	group singleflight.Group
}

// NewCached wraps inner with an LRU cache of the given size.
func NewCached(inner Provider, cacheSize int) *Cached {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](cacheSize)
	return &Cached{inner: inner, cache: cache}
}

func (c *Cached) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.inner.Name() + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Encode serves cached single-text queries from memory and coalesces
// concurrent identical misses; batches of more than one text bypass the
// cache entirely since a batch rarely repeats verbatim.
func (c *Cached) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) != 1 {
		return c.inner.Encode(ctx, texts)
	}

	text := texts[0]
	key := c.cacheKey(text)

	if vec, ok := c.cache.Get(key); ok {
		return [][]float32{vec}, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		vecs, err := c.inner.Encode(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, vecs[0])
		return vecs[0], nil
	})
	if err != nil {
		return nil, err
	}

	return [][]float32{result.([]float32)}, nil
}

// Dim passes through to the wrapped provider.
func (c *Cached) Dim() int { return c.inner.Dim() }

// Name passes through to the wrapped provider.
func (c *Cached) Name() string { return c.inner.Name() }

// Available passes through to the wrapped provider.
func (c *Cached) Available(ctx context.Context) bool { return c.inner.Available(ctx) }

// Inner returns the wrapped provider.
func (c *Cached) Inner() Provider { return c.inner }
