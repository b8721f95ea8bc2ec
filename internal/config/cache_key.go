package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AuthRateLimitKey returns the counter key for one client in one rate-limit window.
// window is the window start as unix seconds, so keys roll over without explicit resets.
func (r *CacheKeyStruct) AuthRateLimitKey(clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:auth:%s:%d", clientIP, window)
}

var CacheKey = NewCacheKeyStruct()
