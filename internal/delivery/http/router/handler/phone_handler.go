package handler

import (
	"log/slog"
	"net/http"

	"fileportal/internal/delivery/http/middleware"
	"fileportal/internal/delivery/http/response"
	"fileportal/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PhoneHandler holds dependencies for phone number handlers.
type PhoneHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewPhoneHandler is the constructor for PhoneHandler, injected by Fx.
func NewPhoneHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *PhoneHandler {
	return &PhoneHandler{uc: uc, logger: logger}
}

type phoneRequest struct {
	Number    string `json:"number" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// ListPhoneNumbers returns all of the caller's phone numbers.
func (h *PhoneHandler) ListPhoneNumbers(c echo.Context) error {
	phones, err := h.uc.ListPhoneNumbers(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, phones)
}

// CreatePhoneNumber stores a new phone number for the caller.
func (h *PhoneHandler) CreatePhoneNumber(c echo.Context) error {
	var input phoneRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid phone number input.")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	phone, err := h.uc.CreatePhoneNumber(c.Request().Context(), usecase.PhoneInput{
		UserID:    middleware.UserID(c),
		Number:    input.Number,
		IsPrimary: input.IsPrimary,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, phone)
}

// UpdatePhoneNumber rewrites one of the caller's phone numbers.
func (h *PhoneHandler) UpdatePhoneNumber(c echo.Context) error {
	phoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.NotFound(c, "Not found.")
	}

	var input phoneRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid phone number input.")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	phone, err := h.uc.UpdatePhoneNumber(c.Request().Context(), phoneID, usecase.PhoneInput{
		UserID:    middleware.UserID(c),
		Number:    input.Number,
		IsPrimary: input.IsPrimary,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, phone)
}

// DeletePhoneNumber removes one of the caller's phone numbers.
func (h *PhoneHandler) DeletePhoneNumber(c echo.Context) error {
	phoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.NotFound(c, "Not found.")
	}

	if err := h.uc.DeletePhoneNumber(c.Request().Context(), middleware.UserID(c), phoneID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
