package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds computed read models (dashboard stats) for a short TTL.
// Writers call Delete/Clear after a mutation so readers never wait out the TTL.
//
// Clear advances a generation counter. A reader that captured the generation
// before loading uses SetIfGeneration so a result computed from data older
// than the last Clear is never stored.
type Cache struct {
	ttl time.Duration
	c   *gocache.Cache

	mu  sync.Mutex
	gen uint64
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl: ttl,
		c:   gocache.New(ttl, 2*ttl),
	}
}

func (c *Cache) Get(key string) (any, bool) {
	return c.c.Get(key)
}

func (c *Cache) Set(key string, val any) {
	c.c.Set(key, val, c.ttl)
}

func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration stores val only when no Clear happened since gen was read.
func (c *Cache) SetIfGeneration(key string, val any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.c.Set(key, val, c.ttl)
	return true
}

func (c *Cache) Delete(key string) {
	c.c.Delete(key)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.c.Flush()
}
