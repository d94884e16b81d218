package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CacheKey derives a stable cache key from an arbitrary set of request
// parameters.
func CacheKey(parts ...string) string {
	hasher := sha256.New()
	hasher.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hasher.Sum(nil))
}
