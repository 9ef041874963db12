package urlglob

import (
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

const defaultCacheSize = 128

// cache memoizes resolved URL lists per pattern key. Misses run the
// compute function through a singleflight group, so concurrent misses on
// one key trigger a single filesystem scan. Errors are not cached.
type cache struct {
	lru *lru.Cache
	sf  singleflight.Group
}

func newCache(size int) *cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		panic(err) // only fails for size <= 0
	}
	return &cache{lru: c}
}

// Get returns the cached URL list for key, computing and storing it on a
// miss. hit reports whether the list came from cache.
func (c *cache) Get(key Key, compute func() ([]string, error)) (urls []string, hit bool, err error) {
	if v, ok := c.lru.Get(key); ok {
		return v.([]string), true, nil
	}

	v, err, _ := c.sf.Do(key.flight(), func() (any, error) {
		// A racing caller may have stored the value while we waited on
		// the flight.
		if v, ok := c.lru.Get(key); ok {
			return v.([]string), nil
		}
		urls, err := compute()
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, urls)
		return urls, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]string), false, nil
}

func (c *cache) Purge() {
	c.lru.Purge()
}

func (c *cache) Len() int {
	return c.lru.Len()
}
