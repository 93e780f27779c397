package middleware

import (
    "bytes"
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/isuci/isuci-backend/internal/config"
    "github.com/isuci/isuci-backend/internal/logger"
)

// Fields of a cached entry.
const (
    cachedType = "type"
    cachedBody = "body"
)

// bodyRecorder tees the response body while it is written to the client.
// Once the body outgrows limit the copy is dropped.
type bodyRecorder struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (w *bodyRecorder) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
    if !w.overflow {
        if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
            w.overflow = true
            w.buf.Reset()
        } else {
            w.buf.Write(b)
        }
    }
    return w.ResponseWriter.Write(b)
}

// NewRedisCache caches the 200 responses of identity-free GET routes (the
// squad and specialty catalogs) in a Redis hash keyed by the registered
// route.  A hit replays the content type and body.  Never mount it on a
// route whose body depends on the caller or on query parameters.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cfg.Prefix + ":" + c.Path()

            if hit, err := rdb.HGetAll(ctx, key).Result(); err == nil {
                if body, ok := hit[cachedBody]; ok {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(http.StatusOK, hit[cachedType], []byte(body))
                }
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.overflow {
                return nil
            }

            sctx := context.WithoutCancel(ctx)
            contentType := c.Response().Header().Get(echo.HeaderContentType)
            _, err := rdb.TxPipelined(sctx, func(p redis.Pipeliner) error {
                p.HSet(sctx, key, cachedType, contentType, cachedBody, rec.buf.Bytes())
                p.Expire(sctx, key, ttl)
                return nil
            })
            if err != nil {
                logger.FromContext(ctx).Warn("cache: store failed", "key", key, "err", err)
            }
            return nil
        }
    }
}
