package handler

import (
    "net/http"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "github.com/isuci/isuci-backend/internal/model"
)

func TestCatalog(t *testing.T) {
    t.Run("Should list squads", func(t *testing.T) {
        h := NewCatalogHandler(fakeCatalog{squads: []model.Squad{{ID: 1, Name: "Andes"}}}, 0)
        e := newEcho()
        e.GET("/escuadras", h.ListSquads)
        e.GET("/especialidades", h.ListSpecialties)

        rec := do(e, http.MethodGet, "/escuadras", "", "")
        assert.Equal(t, http.StatusOK, rec.Code)
        assert.Contains(t, rec.Body.String(), "Andes")

        rec = do(e, http.MethodGet, "/especialidades", "", "")
        assert.Equal(t, http.StatusOK, rec.Code)
        assert.JSONEq(t, `[]`, rec.Body.String())
    })

    t.Run("Should answer 500 on store failure", func(t *testing.T) {
        e := newEcho()
        e.GET("/escuadras", NewCatalogHandler(fakeCatalog{err: errBoom}, 0).ListSquads)

        rec := do(e, http.MethodGet, "/escuadras", "", "")

        assert.Equal(t, http.StatusInternalServerError, rec.Code)
    })
}

func TestHealthAndPing(t *testing.T) {
    e := newEcho()
    e.GET("/healthz", Health)
    e.GET("/ping", Ping(fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}, 0))

    rec := do(e, http.MethodGet, "/healthz", "", "")
    assert.Equal(t, "ok", rec.Body.String())

    rec = do(e, http.MethodGet, "/ping", "", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"now":"2024-05-01T10:00:00Z"}`, rec.Body.String())

    e.GET("/ping-down", Ping(fakeClock{err: errBoom}, 0))
    rec = do(e, http.MethodGet, "/ping-down", "", "")
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
