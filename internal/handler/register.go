package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/isuci/isuci-backend/internal/metrics"
    "github.com/isuci/isuci-backend/internal/model"
    "github.com/isuci/isuci-backend/internal/repository"
    "github.com/isuci/isuci-backend/internal/service"
)

// Registrar stores a new user.
type Registrar interface {
    Register(ctx context.Context, r service.Registration) error
}

type RegisterHandler struct {
    Registrar Registrar
    Timeout   time.Duration
    Metrics   *metrics.Metrics
}

func NewRegisterHandler(r Registrar, timeout time.Duration, m *metrics.Metrics) *RegisterHandler {
    return &RegisterHandler{Registrar: r, Timeout: timeout, Metrics: m}
}

// registerReq mirrors the usuario columns.  Only the identity, password,
// name and email are required; the rest depend on the role.  Any role code
// is stored as sent: codes outside 1..4 classify as Ciclista.
type registerReq struct {
    DocumentID      string   `json:"iddocumento" validate:"required,max=50"`
    Password        string   `json:"contrasenausuario" validate:"required"`
    Name            string   `json:"nombreusuario" validate:"required"`
    Email           string   `json:"correousuario" validate:"required,email"`
    RoleCode        *int     `json:"idtipousuario"`
    BodyTypeID      *int     `json:"idtipocontextura"`
    CountryID       *int     `json:"idpais"`
    SpecialtyID     *int     `json:"idespecialidad"`
    SquadID         *int     `json:"idescuadra"`
    DocumentType    *string  `json:"tipodocumentousuario"`
    Surname         *string  `json:"apellidousuario"`
    Gender          *string  `json:"generousuario"`
    Phone           *string  `json:"telefonousuario"`
    Address         *string  `json:"direccionusuario"`
    Weight          *float64 `json:"pesousuario" validate:"omitempty,gte=0"`
    Power           *float64 `json:"potenciausuario" validate:"omitempty,gte=0"`
    Acceleration    *float64 `json:"acelaracionusuario"`
    AvgSpeed        *float64 `json:"velocidadpromediousuario" validate:"omitempty,gte=0"`
    MaxSpeed        *float64 `json:"velocidadmaximausuario" validate:"omitempty,gte=0"`
    RaceTime        *float64 `json:"tiempociclista" validate:"omitempty,gte=0"`
    YearsExperience *int     `json:"anosexperiencia" validate:"omitempty,gte=0"`
    RampGrade       *float64 `json:"gradorampa"`
}

func (r registerReq) registration() service.Registration {
    return service.Registration{
        Password: r.Password,
        User: model.User{
            DocumentID:      r.DocumentID,
            RoleCode:        r.RoleCode,
            BodyTypeID:      r.BodyTypeID,
            CountryID:       r.CountryID,
            SpecialtyID:     r.SpecialtyID,
            SquadID:         r.SquadID,
            DocumentType:    r.DocumentType,
            Name:            r.Name,
            Surname:         r.Surname,
            Gender:          r.Gender,
            Email:           r.Email,
            Phone:           r.Phone,
            Address:         r.Address,
            Weight:          r.Weight,
            Power:           r.Power,
            Acceleration:    r.Acceleration,
            AvgSpeed:        r.AvgSpeed,
            MaxSpeed:        r.MaxSpeed,
            RaceTime:        r.RaceTime,
            YearsExperience: r.YearsExperience,
            RampGrade:       r.RampGrade,
        },
    }
}

// Register creates the account.  It does not log the user in.
func (h *RegisterHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.DocumentID = strings.TrimSpace(req.DocumentID)
    req.Name = strings.TrimSpace(req.Name)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if err := c.Validate(&req); err != nil {
        h.Metrics.Registration("invalid")
        return invalidRequest(c, err)
    }

    ctx, cancel := storeContext(c, h.Timeout)
    defer cancel()

    if err := h.Registrar.Register(ctx, req.registration()); err != nil {
        switch {
        case errors.Is(err, repository.ErrDuplicateIdentifier):
            h.Metrics.Registration("duplicate")
        case errors.Is(err, service.ErrMissingField), errors.Is(err, service.ErrInvalidField):
            h.Metrics.Registration("invalid")
        default:
            h.Metrics.Registration("error")
        }
        return respondError(c, err)
    }
    h.Metrics.Registration("success")
    return c.JSON(http.StatusOK, echo.Map{"message": "registered"})
}
