// Package middleware contains the HTTP middlewares of the delivery layer.
package middleware

import (
	"strings"

	"fileportal/internal/delivery/http/response"
	"fileportal/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// KeyUserID is the echo context key under which the authenticated user's ID
// is stored.
const KeyUserID = "userID"

// AuthMiddleware provides middleware for JWT authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Authentication credentials were not provided.")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "Invalid token header. Must be a Bearer token.")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "Given token not valid for any token type.")
		}

		// Set user info on the context for handlers to use
		c.Set(KeyUserID, claims.UserID)

		return next(c)
	}
}

// UserID extracts the authenticated user's ID from the echo context.
// It returns uuid.Nil when the Authenticate middleware did not run.
func UserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(KeyUserID).(uuid.UUID); ok {
		return id
	}

	return uuid.Nil
}
