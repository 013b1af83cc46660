package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores rendered analysis reports keyed by evidence content hash so
// that re-analyzing unchanged evidence is free.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a piece of evidence content.
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return "attestor:v1:" + hex.EncodeToString(sum[:])
}
