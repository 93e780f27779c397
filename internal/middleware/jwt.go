package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/isuci/isuci-backend/internal/utils" // access token verification
)

// Context keys populated by JWTAuth.
const (
    CtxDocumentID = "user_id"
    CtxRole       = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the token's subject (the document id) and role claim on the
// request context.  The identity lives only as long as the request; the
// handlers read it back through CurrentDocumentID.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            id, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(CtxDocumentID, id.DocumentID)
            c.Set(CtxRole, id.Role)
            return next(c)
        }
    }
}
