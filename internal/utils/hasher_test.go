package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyStable(t *testing.T) {
	assert.Equal(t, CacheKey("text", "coffee"), CacheKey("text", "coffee"))
	assert.NotEqual(t, CacheKey("text", "coffee"), CacheKey("text", "tea"))
	assert.Len(t, CacheKey("text", "coffee"), 64)
}

func TestCacheKeyPartBoundaries(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	assert.NotEqual(t, CacheKey("ab", "c"), CacheKey("a", "bc"))
}
