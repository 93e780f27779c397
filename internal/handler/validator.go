package handler

import (
    "errors"
    "net/http"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo.Validator.  Field names
// in errors are the JSON keys the client sent.
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        return name
    })
    return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error {
    return cv.v.Struct(i)
}

// invalidRequest answers a failed c.Validate with 400 and the offending
// fields.
func invalidRequest(c echo.Context, err error) error {
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    fields := make([]string, 0, len(verrs))
    for _, fe := range verrs {
        fields = append(fields, fe.Field())
    }
    return c.JSON(http.StatusBadRequest, echo.Map{
        "error":  "missing or invalid fields",
        "fields": fields,
    })
}
