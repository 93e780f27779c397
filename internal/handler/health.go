package handler // declare the package name; contains HTTP handlers

import (
    "context"  // store call bound
    "net/http" // net/http provides status codes and response helpers
    "time"     // database clock value

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It returns
// a plain text "ok" message with an HTTP 200 status code.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Clock reports the database's current time.
type Clock interface {
    Now(ctx context.Context) (time.Time, error)
}

// Ping returns a handler that round-trips to the database and echoes its
// clock, proving connectivity beyond the process itself.
func Ping(db Clock, timeout time.Duration) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := storeContext(c, timeout)
        defer cancel()
        now, err := db.Now(ctx)
        if err != nil {
            return respondError(c, err)
        }
        return c.JSON(http.StatusOK, echo.Map{"now": now})
    }
}
