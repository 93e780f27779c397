package config

import "time"

// CacheConfig defines settings for the response cache in front of the squad
// and specialty catalogs.  When Enabled is false or no Redis client is
// configured, caching is disabled.  Responses larger than MaxBodyBytes are
// served but never stored.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Catalog rows change rarely, so the default TTL is generous.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 10*time.Minute),
        Prefix:       envStr("CACHE_PREFIX", "isuci:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}
