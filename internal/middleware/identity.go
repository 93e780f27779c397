package middleware

import "github.com/labstack/echo/v4"

// CurrentDocumentID returns the document id JWTAuth stored for this
// request, or "" when the request is anonymous.
func CurrentDocumentID(c echo.Context) string {
    if s, ok := c.Get(CtxDocumentID).(string); ok {
        return s
    }
    return ""
}
