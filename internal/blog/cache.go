package blog

import (
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const DefaultCacheTTL = 10 * time.Minute

// ResponseCache holds rendered public blog responses. Any admin change clears it.
type ResponseCache struct {
	cache         *freecache.Cache
	expireSeconds int
}

func NewResponseCache(sizeMiB int, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResponseCache{
		// freecache enforces a 512 KiB minimum
		cache:         freecache.NewCache(sizeMiB * 1024 * 1024),
		expireSeconds: int(ttl.Seconds()),
	}
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *ResponseCache) Set(key string, value []byte) {
	if c == nil {
		return
	}
	if err := c.cache.Set([]byte(key), value, c.expireSeconds); err != nil {
		log.Warnf("blog cache set [%s]: %s", key, err)
	}
}

func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}
	c.cache.Clear()
}

func (c *ResponseCache) EntryCount() int64 {
	if c == nil {
		return 0
	}
	return c.cache.EntryCount()
}
