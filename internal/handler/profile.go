package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/isuci/isuci-backend/internal/middleware"
    "github.com/isuci/isuci-backend/internal/service"
)

// ProfileReader returns role-filtered profiles.
type ProfileReader interface {
    Get(ctx context.Context, caller, documentID string) (service.View, error)
}

type ProfileHandler struct {
    Profiles ProfileReader
    Timeout  time.Duration
}

func NewProfileHandler(p ProfileReader, timeout time.Duration) *ProfileHandler {
    return &ProfileHandler{Profiles: p, Timeout: timeout}
}

// Get serves GET /perfil/:iddocumento.  The caller comes from the verified
// access token, never from the path.
func (h *ProfileHandler) Get(c echo.Context) error {
    id := strings.TrimSpace(c.Param("iddocumento"))
    if id == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "iddocumento required"})
    }

    ctx, cancel := storeContext(c, h.Timeout)
    defer cancel()

    view, err := h.Profiles.Get(ctx, middleware.CurrentDocumentID(c), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, view)
}
