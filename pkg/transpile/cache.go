package transpile

import (
	"context"

	"github.com/arthur-debert/addonc/pkg/internal/hashutil"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes successful transpilations keyed by file, content hash and
// dialect. Failures are never cached, so a fixed file is retried.
type Cached struct {
	next  Transpiler
	cache *lru.Cache[string, []byte]
}

// NewCached wraps next with an LRU cache holding up to size results
func NewCached(next Transpiler, size int) (*Cached, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

// Transpile implements Transpiler
func (c *Cached) Transpile(ctx context.Context, source []byte, dialect string) ([]byte, error) {
	key := cacheKey(FileFrom(ctx), source, dialect)
	if out, ok := c.cache.Get(key); ok {
		return out, nil
	}

	out, err := c.next.Transpile(ctx, source, dialect)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, out)
	return out, nil
}

// Len returns the number of cached results
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Scripts may read the file name, so it is part of the key
func cacheKey(file string, source []byte, dialect string) string {
	return dialect + ":" + file + ":" + hashutil.Checksum(source)
}
