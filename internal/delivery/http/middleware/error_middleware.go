package middleware

import (
	"log/slog"
	"net/http"

	domainerrors "fileportal/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// fieldForErrorCode maps duplicate-account errors onto the form field that
// caused them, so clients can render the message next to the right input.
func fieldForErrorCode(code string) string {
	switch code {
	case "USERNAME_TAKEN":
		return "username"
	case "EMAIL_TAKEN":
		return "email"
	default:
		return ""
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
// Application errors become {"detail": message} bodies, except duplicate
// account fields which become {"field": [message]} so forms can attribute them.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Try to parse as AppError
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if field := fieldForErrorCode(appErr.ErrorCode()); field != "" {
			_ = c.JSON(appErr.HTTPCode(), map[string][]string{field: {appErr.Message()}})

			return
		}

		_ = c.JSON(appErr.HTTPCode(), map[string]string{"detail": appErr.Message()})

		return
	}

	// Check if it's Echo's HTTPError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if s, ok := httpErr.Message.(string); ok {
			message = s
		}
		_ = c.JSON(httpErr.Code, map[string]string{"detail": message})

		return
	}

	// Default to internal error, log error and return generic message
	m.logger.Error("Unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = c.JSON(http.StatusInternalServerError, map[string]string{"detail": "Internal server error."})
}
