// Package response contains the JSON helpers shared by the HTTP handlers.
// Error bodies use either a single "detail" message or a map of field names
// to message lists, which is the shape the portal clients parse.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Detail writes an error body of the form {"detail": message}.
func Detail(c echo.Context, statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, map[string]string{"detail": message})
}

// FieldErrors writes an error body keyed by field name, each carrying a list
// of messages, e.g. {"username": ["A user with that username already exists."]}.
func FieldErrors(c echo.Context, statusCode int, fields map[string][]string) error {
	return c.JSON(statusCode, fields)
}

// BindingError reports a malformed request body.
func BindingError(c echo.Context, message string) error {
	return Detail(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 detail body.
func Unauthorized(c echo.Context, message string) error {
	return Detail(c, http.StatusUnauthorized, message)
}

// NotFound writes a 404 detail body.
func NotFound(c echo.Context, message string) error {
	return Detail(c, http.StatusNotFound, message)
}
