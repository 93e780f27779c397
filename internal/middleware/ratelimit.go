package middleware

import (
    "bytes"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "io"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/isuci/isuci-backend/internal/config"
    "github.com/isuci/isuci-backend/internal/logger"
)

// BucketKey names the bucket a request draws from.  An empty name lets the
// request through without touching Redis.
type BucketKey func(c echo.Context) string

// ClientRoute gives every client address its own bucket per route.
func ClientRoute(c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    return "ip:" + ip + ":route:" + c.Request().Method + " " + c.Path()
}

// maxPeekBytes bounds how much of a login body LoginAccount reads.
const maxPeekBytes = 4 << 10

// LoginAccount buckets /login attempts by the submitted usuario, so guessing
// one account's password is throttled however many addresses it comes from.
// The body is restored for the handler.  A body without a usuario gets no
// bucket here; validation rejects it anyway.
func LoginAccount(c echo.Context) string {
    id := strings.TrimSpace(peekString(c.Request(), "usuario"))
    if id == "" {
        return ""
    }
    sum := sha256.Sum256([]byte(id))
    return "account:" + hex.EncodeToString(sum[:12])
}

func peekString(req *http.Request, field string) string {
    if req.Body == nil {
        return ""
    }
    head, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBytes))
    req.Body = struct {
        io.Reader
        io.Closer
    }{io.MultiReader(bytes.NewReader(head), req.Body), req.Body}
    if err != nil {
        return ""
    }
    var fields map[string]json.RawMessage
    if json.Unmarshal(head, &fields) != nil {
        return ""
    }
    var s string
    if json.Unmarshal(fields[field], &s) != nil {
        return ""
    }
    return s
}

// takeToken refills the bucket for the whole intervals elapsed since the
// last refill, then tries to take one token.  It returns
// {allowed, tokens left, ms until the next refill when refused}.
var takeToken = redis.NewScript(`
local now, cap, refill, every, ttl = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local st = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens, ts = tonumber(st[1]), tonumber(st[2])
if tokens == nil or ts == nil then
    tokens, ts = cap, now
end
local n = math.floor(math.max(0, now - ts) / every)
if n > 0 then
    tokens = math.min(cap, tokens + n * refill)
    ts = ts + n * every
end
local allowed, wait = 0, 0
if tokens > 0 then
    allowed, tokens = 1, tokens - 1
else
    wait = math.max(0, every - (now - ts))
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', KEYS[1], ttl)
return {allowed, tokens, wait}
`)

// NewTokenBucket throttles requests with token buckets kept in Redis, so
// every replica shares the same budget; key picks the bucket.  Without
// Redis, or on any script error, requests pass through untouched.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, key BucketKey) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            name := key(c)
            if name == "" {
                return next(c)
            }
            bucket := cfg.Prefix + ":" + name
            ctx := c.Request().Context()

            res, err := takeToken.Run(ctx, rdb, []string{bucket},
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL/time.Second),
            ).Int64Slice()
            if err != nil || len(res) != 3 {
                logger.FromContext(ctx).Warn("ratelimit: bucket unavailable", "bucket", bucket, "err", err)
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
            if res[0] == 1 {
                return next(c)
            }

            secs := int(math.Ceil(float64(res[2]) / 1000))
            h.Set("Retry-After", strconv.Itoa(secs))
            if cfg.Debug {
                logger.FromContext(ctx).Info("ratelimit: refused", "bucket", bucket, "retry_after", secs)
            }
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "error":       "too many requests",
                "retry_after": secs,
            })
        }
    }
}
