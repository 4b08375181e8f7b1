// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request structs.
package validator

import (
	"net/http"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps a validator instance for echo.
type CustomValidator struct {
	validate *playground.Validate
}

// New creates the validator used by the HTTP server.
func New() *CustomValidator {
	return &CustomValidator{validate: playground.New(playground.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. Violations surface as 400 responses.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
