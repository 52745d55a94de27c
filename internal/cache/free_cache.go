package cache

import (
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Cache = (*FreeCache)(nil)

// FreeCache is an in-process cache with a fixed memory budget; the oldest
// entries are evicted when it is full.
type FreeCache struct {
	cache *freecache.Cache
}

func NewFreeCache(sizeMegabytes int) *FreeCache {
	megabyte := 1024 * 1024
	return &FreeCache{
		cache: freecache.NewCache(sizeMegabytes * megabyte),
	}
}

func (fc *FreeCache) Get(key string) ([]byte, bool) {
	value, err := fc.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return value, true
}

func (fc *FreeCache) Set(key string, value []byte, ttl time.Duration) bool {
	if err := fc.cache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		log.Warnf("cache set [%s]: %s", key, err)
		return false
	}
	return true
}

func (fc *FreeCache) Clear() {
	fc.cache.Clear()
}
