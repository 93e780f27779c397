package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/isuci/isuci-backend/internal/model"
)

// Catalog lists the lookup tables offered on the registration form.
type Catalog interface {
    ListSquads(ctx context.Context) ([]model.Squad, error)
    ListSpecialties(ctx context.Context) ([]model.Specialty, error)
}

type CatalogHandler struct {
    Catalog Catalog
    Timeout time.Duration
}

func NewCatalogHandler(cat Catalog, timeout time.Duration) *CatalogHandler {
    return &CatalogHandler{Catalog: cat, Timeout: timeout}
}

// GET /escuadras
func (h *CatalogHandler) ListSquads(c echo.Context) error {
    ctx, cancel := storeContext(c, h.Timeout)
    defer cancel()
    squads, err := h.Catalog.ListSquads(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, squads)
}

// GET /especialidades
func (h *CatalogHandler) ListSpecialties(c echo.Context) error {
    ctx, cancel := storeContext(c, h.Timeout)
    defer cancel()
    specs, err := h.Catalog.ListSpecialties(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, specs)
}
