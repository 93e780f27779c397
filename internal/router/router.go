package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/isuci/isuci-backend/internal/handler"
	"github.com/isuci/isuci-backend/internal/logger"
	"github.com/isuci/isuci-backend/internal/metrics"
	"github.com/isuci/isuci-backend/internal/middleware"
	"github.com/isuci/isuci-backend/internal/model"
)

// Setup installs the middleware shared by every route: panic recovery,
// request ids, a request-scoped logger, access logging, CORS and metrics.
// It also registers the request validator.
func Setup(e *echo.Echo, corsOrigin string, m *metrics.Metrics) {
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger)
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			kv := []any{"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency", v.Latency.Round(time.Microsecond), "request_id", v.RequestID}
			if v.Error != nil {
				logger.Warn("request", append(kv, "err", v.Error)...)
				return nil
			}
			logger.Info("request", kv...)
			return nil
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{corsOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(m.Middleware())
}

// requestLogger puts a logger tagged with the request id on the request
// context so store and service logs can be correlated.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		req := c.Request()
		l := logger.Default().With("request_id", id)
		c.SetRequest(req.WithContext(logger.ContextWithLogger(req.Context(), l)))
		return next(c)
	}
}

// RegisterRoutes registers routes that do not require authentication:
// liveness, database ping, the Swagger document and the Prometheus scrape
// endpoint.
func RegisterRoutes(e *echo.Echo, ping echo.HandlerFunc, m *metrics.Metrics) {
	e.GET("/healthz", handler.Health)
	e.GET("/api-docs/doc.json", handler.APIDocs)
	if ping != nil {
		e.GET("/ping", ping)
	}
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterAuth registers the session endpoints.  /login and /registro draw
// from the per-client limiter, and /login also from the per-account one.
// Refresh and logout are bounded by the validity of the tokens they carry.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, r *handler.RegisterHandler, clientLimit, accountLimit echo.MiddlewareFunc) {
	e.POST("/login", a.Login, optional(clientLimit, accountLimit)...)
	e.POST("/registro", r.Register, optional(clientLimit)...)
	e.POST("/refresh", a.Refresh)
	e.POST("/logout", a.Logout)
}

// RegisterProfile registers /perfil behind JWT authentication.  Every role
// this server issues may read its own profile, so the role guard only turns
// away tokens that verify but carry no role claim, or a role name this
// server does not know.
func RegisterProfile(e *echo.Echo, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group("/perfil")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.Roles()...))
	g.GET("/:iddocumento", p.Get)
}

// RegisterCatalog registers the public lookup lists behind the response
// cache.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	e.GET("/escuadras", h.ListSquads, optional(cache)...)
	e.GET("/especialidades", h.ListSpecialties, optional(cache)...)
}

func optional(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	var out []echo.MiddlewareFunc
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
