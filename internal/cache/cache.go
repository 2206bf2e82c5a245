package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for search-result caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SearchKey generates a cache key for a search call. The provider name is
// part of the key so switching credentials never serves stale results from
// another backend.
func SearchKey(provider, query string, numResults int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", provider, query, numResults)))
	return "evalia:v1:" + hex.EncodeToString(hash[:])
}
