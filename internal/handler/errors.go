package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/isuci/isuci-backend/internal/logger"
    "github.com/isuci/isuci-backend/internal/repository"
    "github.com/isuci/isuci-backend/internal/service"
)

// respondError maps service and store errors to a status code and a terse
// body.  Anything unrecognised is logged and answered with a generic 500 so
// that driver messages never reach the client.
func respondError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, service.ErrMissingField), errors.Is(err, service.ErrInvalidField):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrInvalidCredentials):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    case errors.Is(err, service.ErrUnauthenticated):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    case errors.Is(err, service.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
    case errors.Is(err, repository.ErrDuplicateIdentifier):
        return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
    case errors.Is(err, repository.ErrTimeout):
        return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "store timeout"})
    default:
        logger.FromContext(c.Request().Context()).Error("request failed",
            "method", c.Request().Method, "path", c.Path(), "err", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
