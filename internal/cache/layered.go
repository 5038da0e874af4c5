package cache

import (
	"io"
	"time"
)

// LayeredCache puts a fast front tier (process memory) ahead of a slower
// back tier (disk or redis). Back-tier hits are copied to the front.
type LayeredCache struct {
	front Cache
	back  Cache
}

// NewLayeredCache stacks front over back
func NewLayeredCache(front, back Cache) *LayeredCache {
	return &LayeredCache{front: front, back: back}
}

// Get checks the front tier first, then the back tier
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.front.Get(key); found {
		return val, true
	}

	val, found := c.back.Get(key)
	if !found {
		return nil, false
	}
	_ = c.front.Set(key, val, 0)
	return val, true
}

// Set writes through to both tiers. A back-tier failure is returned after
// the front tier has already been updated.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.front.Set(key, value, ttl); err != nil {
		return err
	}
	return c.back.Set(key, value, ttl)
}

// Delete removes a value from both tiers
func (c *LayeredCache) Delete(key string) error {
	_ = c.front.Delete(key)
	return c.back.Delete(key)
}

// Clear empties both tiers
func (c *LayeredCache) Clear() error {
	_ = c.front.Clear()
	return c.back.Clear()
}

// Close releases the back tier when it holds a connection
func (c *LayeredCache) Close() error {
	if closer, ok := c.back.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
