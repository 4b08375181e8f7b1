package handler

import (
	"log/slog"
	"net/http"

	"fileportal/internal/delivery/http/middleware"
	"fileportal/internal/delivery/http/response"
	"fileportal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProfileHandler holds dependencies for profile handlers.
type ProfileHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{uc: uc, logger: logger}
}

type updateProfileRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// GetProfile returns the account plus its addresses and phone numbers.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	output, err := h.uc.GetProfile(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":          output.User,
		"addresses":     output.Addresses,
		"phone_numbers": output.PhoneNumbers,
	})
}

// UpdateProfile applies a partial update to the account fields.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var input updateProfileRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid profile input.")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), usecase.UpdateProfileInput{
		UserID:    middleware.UserID(c),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, user)
}
