package handler

import (
    "encoding/json"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/isuci/isuci-backend/internal/docs"
    "github.com/isuci/isuci-backend/internal/logger"
)

// APIDocs serves the Swagger 2.0 description of this API.
func APIDocs(c echo.Context) error {
    raw := docs.SwaggerInfo.ReadDoc()
    if raw == "" || !json.Valid([]byte(raw)) {
        logger.FromContext(c.Request().Context()).Error("swagger document not available or invalid")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "api docs not available"})
    }
    return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(raw))
}
