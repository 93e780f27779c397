package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "sync/atomic"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/isuci/isuci-backend/internal/config"
    "github.com/isuci/isuci-backend/internal/model"
    "github.com/isuci/isuci-backend/internal/utils"
)

const testSecret = "test-secret"

func newRedis(t *testing.T) *redis.Client {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return rdb
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(method, path, nil)
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    e.GET("/me", func(c echo.Context) error {
        return c.String(http.StatusOK, CurrentDocumentID(c)+"|"+c.Get(CtxRole).(string))
    }, JWTAuth(testSecret))

    t.Run("Should store the token identity on the request", func(t *testing.T) {
        at, err := utils.NewAccessToken(testSecret, "1001", string(model.RoleCyclist), 5)
        require.NoError(t, err)

        rec := serve(e, http.MethodGet, "/me", at.Token)

        assert.Equal(t, http.StatusOK, rec.Code)
        assert.Equal(t, "1001|Ciclista", rec.Body.String())
    })

    t.Run("Should reject a missing bearer token", func(t *testing.T) {
        rec := serve(e, http.MethodGet, "/me", "")

        assert.Equal(t, http.StatusUnauthorized, rec.Code)
    })

    t.Run("Should reject a token signed with another secret", func(t *testing.T) {
        at, err := utils.NewAccessToken("other", "1001", string(model.RoleCyclist), 5)
        require.NoError(t, err)

        rec := serve(e, http.MethodGet, "/me", at.Token)

        assert.Equal(t, http.StatusUnauthorized, rec.Code)
    })
}

func TestRequireRole(t *testing.T) {
    e := echo.New()
    e.GET("/admin", func(c echo.Context) error {
        return c.NoContent(http.StatusNoContent)
    }, JWTAuth(testSecret), RequireRole(model.RoleAdministrator, model.RoleDirector))

    for _, tc := range []struct {
        role model.Role
        want int
    }{
        {model.RoleAdministrator, http.StatusNoContent},
        {model.RoleDirector, http.StatusNoContent},
        {model.RoleCyclist, http.StatusForbidden},
        {model.RoleMasseur, http.StatusForbidden},
    } {
        t.Run(string(tc.role), func(t *testing.T) {
            at, err := utils.NewAccessToken(testSecret, "7", string(tc.role), 5)
            require.NoError(t, err)

            rec := serve(e, http.MethodGet, "/admin", at.Token)

            assert.Equal(t, tc.want, rec.Code)
        })
    }
}

func TestCurrentDocumentID(t *testing.T) {
    c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
    assert.Empty(t, CurrentDocumentID(c))

    c.Set(CtxDocumentID, 42)
    assert.Empty(t, CurrentDocumentID(c), "non-string values are ignored")
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func testLimit(capacity int) config.RateLimitConfig {
    return config.RateLimitConfig{
        Enabled:        true,
        Capacity:       capacity,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            time.Hour,
        Prefix:         "test:rl",
    }
}

func loginFrom(e *echo.Echo, addr, usuario string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"usuario":"`+usuario+`","password":"guess"}`))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    req.RemoteAddr = addr
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestNewTokenBucket(t *testing.T) {
    t.Run("Should answer 429 once the bucket is empty", func(t *testing.T) {
        e := echo.New()
        e.POST("/login", okHandler, NewTokenBucket(testLimit(2), newRedis(t), ClientRoute))

        assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/login", "").Code)
        rec := serve(e, http.MethodPost, "/login", "")
        assert.Equal(t, http.StatusOK, rec.Code)
        assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

        rec = serve(e, http.MethodPost, "/login", "")
        assert.Equal(t, http.StatusTooManyRequests, rec.Code)
        assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
    })

    t.Run("Should keep client addresses apart", func(t *testing.T) {
        e := echo.New()
        e.POST("/login", okHandler, NewTokenBucket(testLimit(1), newRedis(t), ClientRoute))

        assert.Equal(t, http.StatusOK, loginFrom(e, "10.0.0.1:1", "a").Code)
        assert.Equal(t, http.StatusOK, loginFrom(e, "10.0.0.2:1", "a").Code)
        assert.Equal(t, http.StatusTooManyRequests, loginFrom(e, "10.0.0.1:1", "a").Code)
    })

    t.Run("Should pass through without redis", func(t *testing.T) {
        e := echo.New()
        e.POST("/login", okHandler, NewTokenBucket(testLimit(1), nil, ClientRoute))

        for i := 0; i < 5; i++ {
            assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/login", "").Code)
        }
    })
}

func TestLoginAccount(t *testing.T) {
    t.Run("Should throttle one account across addresses", func(t *testing.T) {
        e := echo.New()
        e.POST("/login", okHandler, NewTokenBucket(testLimit(2), newRedis(t), LoginAccount))

        assert.Equal(t, http.StatusOK, loginFrom(e, "10.0.0.1:1", "1001").Code)
        assert.Equal(t, http.StatusOK, loginFrom(e, "10.0.0.2:1", "1001").Code)
        assert.Equal(t, http.StatusTooManyRequests, loginFrom(e, "10.0.0.3:1", "1001").Code)
        assert.Equal(t, http.StatusOK, loginFrom(e, "10.0.0.3:1", "2002").Code, "other accounts keep their budget")
    })

    t.Run("Should leave the body for the handler", func(t *testing.T) {
        e := echo.New()
        e.POST("/login", func(c echo.Context) error {
            var req struct {
                Usuario string `json:"usuario"`
            }
            if err := c.Bind(&req); err != nil {
                return err
            }
            return c.String(http.StatusOK, req.Usuario)
        }, NewTokenBucket(testLimit(5), newRedis(t), LoginAccount))

        rec := loginFrom(e, "10.0.0.1:1", "1001")

        assert.Equal(t, "1001", rec.Body.String())
    })

    t.Run("Should name no bucket without a usuario", func(t *testing.T) {
        for _, body := range []string{``, `not json`, `{"usuario":"  "}`, `{"usuario":7}`} {
            req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
            c := echo.New().NewContext(req, httptest.NewRecorder())

            assert.Empty(t, LoginAccount(c), body)
        }
    })

    t.Run("Should not put the raw identifier in the key", func(t *testing.T) {
        req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"usuario":" 1001 "}`))
        c := echo.New().NewContext(req, httptest.NewRecorder())

        key := LoginAccount(c)

        assert.True(t, strings.HasPrefix(key, "account:"))
        assert.NotContains(t, key, "1001")
    })
}

func TestClientRoute(t *testing.T) {
    req := httptest.NewRequest(http.MethodPost, "/registro", nil)
    req.RemoteAddr = "10.0.0.1:1234"
    c := echo.New().NewContext(req, httptest.NewRecorder())
    c.SetPath("/registro")

    assert.Equal(t, "ip:10.0.0.1:route:POST /registro", ClientRoute(c))
}

func TestNewRedisCache(t *testing.T) {
    cfg := config.CacheConfig{
        Enabled: true,
        TTL:     time.Minute,
        Prefix:  "test:cache",
    }

    t.Run("Should replay a cached response", func(t *testing.T) {
        var calls int32
        e := echo.New()
        e.GET("/escuadras", func(c echo.Context) error {
            atomic.AddInt32(&calls, 1)
            return c.JSON(http.StatusOK, []model.Squad{{ID: 1, Name: "Escuadra Norte"}})
        }, NewRedisCache(cfg, newRedis(t)))

        first := serve(e, http.MethodGet, "/escuadras", "")
        second := serve(e, http.MethodGet, "/escuadras", "")

        assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
        assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
        assert.Equal(t, first.Body.String(), second.Body.String())
        assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
    })

    t.Run("Should not cache error responses", func(t *testing.T) {
        var calls int32
        e := echo.New()
        e.GET("/especialidades", func(c echo.Context) error {
            atomic.AddInt32(&calls, 1)
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "boom"})
        }, NewRedisCache(cfg, newRedis(t)))

        serve(e, http.MethodGet, "/especialidades", "")
        serve(e, http.MethodGet, "/especialidades", "")

        assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
    })

    t.Run("Should not cache bodies above the limit", func(t *testing.T) {
        var calls int32
        small := cfg
        small.MaxBodyBytes = 4
        e := echo.New()
        e.GET("/escuadras", func(c echo.Context) error {
            atomic.AddInt32(&calls, 1)
            return c.String(http.StatusOK, "0123456789")
        }, NewRedisCache(small, newRedis(t)))

        serve(e, http.MethodGet, "/escuadras", "")
        rec := serve(e, http.MethodGet, "/escuadras", "")

        assert.Equal(t, "0123456789", rec.Body.String())
        assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
    })

    t.Run("Should only cache GET", func(t *testing.T) {
        var calls int32
        e := echo.New()
        e.POST("/escuadras", func(c echo.Context) error {
            atomic.AddInt32(&calls, 1)
            return c.String(http.StatusOK, "ok")
        }, NewRedisCache(cfg, newRedis(t)))

        serve(e, http.MethodPost, "/escuadras", "")
        rec := serve(e, http.MethodPost, "/escuadras", "")

        assert.Empty(t, rec.Header().Get("X-Cache"))
        assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
    })

    t.Run("Should replay the content type", func(t *testing.T) {
        e := echo.New()
        e.GET("/especialidades", func(c echo.Context) error {
            return c.JSON(http.StatusOK, []model.Specialty{{ID: 2, Name: "Escalador"}})
        }, NewRedisCache(cfg, newRedis(t)))

        serve(e, http.MethodGet, "/especialidades", "")
        rec := serve(e, http.MethodGet, "/especialidades", "")

        assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
        assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))
    })
}
