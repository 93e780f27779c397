package handler

import (
    "context"
    "time"

    "github.com/labstack/echo/v4"
)

const defaultQueryTimeout = 5 * time.Second

// storeContext bounds the store calls made while serving c.
func storeContext(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
    if d <= 0 {
        d = defaultQueryTimeout
    }
    return context.WithTimeout(c.Request().Context(), d)
}
