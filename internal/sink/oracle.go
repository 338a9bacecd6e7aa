package sink

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedOracle remembers filenames already known to be ingested so repeat
// checks skip the backing store. Negative answers are never cached.
type CachedOracle struct {
	next  Oracle
	known *lru.Cache[string, struct{}]
}

// NewCachedOracle wraps next with an LRU of the given size.
func NewCachedOracle(next Oracle, size int) (*CachedOracle, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, err
	}
	return &CachedOracle{next: next, known: cache}, nil
}

func (c *CachedOracle) Seen(ctx context.Context, filename string) (bool, error) {
	if c.known.Contains(filename) {
		return true, nil
	}
	seen, err := c.next.Seen(ctx, filename)
	if err != nil {
		return false, err
	}
	if seen {
		c.known.Add(filename, struct{}{})
	}
	return seen, nil
}

// Remember marks filename as ingested after a successful write.
func (c *CachedOracle) Remember(filename string) {
	c.known.Add(filename, struct{}{})
}

// Len is the number of cached filenames.
func (c *CachedOracle) Len() int {
	return c.known.Len()
}
