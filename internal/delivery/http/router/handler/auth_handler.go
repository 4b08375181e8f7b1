// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"fileportal/internal/delivery/http/response"
	"fileportal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for account and session handlers.
type AuthHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.UserUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, logger: logger}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Register handles the account creation request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input registerRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid registration input.")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, output.User)
}

// Login handles the credential exchange request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid login input.")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"access":  output.AccessToken,
		"refresh": output.RefreshToken,
		"user":    output.User,
	})
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var input refreshRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid refresh input.")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Refresh(c.Request().Context(), usecase.RefreshInput{RefreshToken: input.Refresh})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"access": output.AccessToken})
}

// Logout ends the session carried by the refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var input refreshRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid logout input.")
	}

	if err := h.uc.Logout(c.Request().Context(), usecase.LogoutInput{RefreshToken: input.Refresh}); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
