package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig drives the Redis token buckets that guard /login and
// /registro.  Every client address gets Capacity tokens per route; on
// /login each submitted account additionally gets AccountCapacity tokens,
// whichever addresses the attempts come from.
type RateLimitConfig struct {
    Enabled         bool
    Capacity        int
    AccountCapacity int
    RefillTokens    int
    RefillInterval  time.Duration
    TTL             time.Duration
    Prefix          string
    Debug           bool
}

func LoadRateLimitConfig() RateLimitConfig {
    def := RateLimitConfig{
        Enabled:         envBool("RATE_LIMIT_ENABLED", true),
        Capacity:        envInt("RATE_LIMIT_CAPACITY", 10),
        AccountCapacity: envInt("RATE_LIMIT_ACCOUNT_CAPACITY", 5),
        RefillTokens:    envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval:  envDur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
        TTL:             envDur("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:          envStr("RATE_LIMIT_PREFIX", "isuci:rl"),
        Debug:           envBool("RATE_LIMIT_DEBUG", false),
    }
    return def.normalize()
}

// Account returns the settings of the per-account login bucket.
func (c RateLimitConfig) Account() RateLimitConfig {
    c.Capacity = c.AccountCapacity
    return c
}

// normalize clamps values the limiter script cannot work with.
func (c RateLimitConfig) normalize() RateLimitConfig {
    if b := envInt("RATE_LIMIT_BURST", -1); b > 0 { c.Capacity = b }
    if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
        c.RefillTokens = 1
        c.RefillInterval = every
    }
    if c.Capacity < 1 { c.Capacity = 1 }
    if c.AccountCapacity < 1 { c.AccountCapacity = 1 }
    if c.RefillTokens < 1 { c.RefillTokens = 1 }
    if c.RefillInterval <= 0 { c.RefillInterval = time.Second }
    minTTL := 5 * c.RefillInterval
    if c.TTL < minTTL { c.TTL = minTTL }
    return c
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }
func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1","true","TRUE","True","yes","YES","on","ON": return true
    case "0","false","FALSE","False","no","NO","off","OFF": return false
    }
    return d
}
func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}
func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
