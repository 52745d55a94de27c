package cache

import "time"

// Cache stores byte values with a per-entry expiry.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) bool
	Clear()
}
