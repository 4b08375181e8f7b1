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

// AddressHandler holds dependencies for address handlers.
type AddressHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewAddressHandler is the constructor for AddressHandler, injected by Fx.
func NewAddressHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{uc: uc, logger: logger}
}

type addressRequest struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country" validate:"required"`
	IsDefault  bool   `json:"is_default"`
}

func (r *addressRequest) toInput(userID uuid.UUID) usecase.AddressInput {
	return usecase.AddressInput{
		UserID:     userID,
		Street:     r.Street,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		IsDefault:  r.IsDefault,
	}
}

// ListAddresses returns all of the caller's addresses.
func (h *AddressHandler) ListAddresses(c echo.Context) error {
	addresses, err := h.uc.ListAddresses(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, addresses)
}

// CreateAddress stores a new address for the caller.
func (h *AddressHandler) CreateAddress(c echo.Context) error {
	var input addressRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid address input.")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	address, err := h.uc.CreateAddress(c.Request().Context(), input.toInput(middleware.UserID(c)))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, address)
}

// UpdateAddress rewrites one of the caller's addresses.
func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.NotFound(c, "Not found.")
	}

	var input addressRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid address input.")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	address, err := h.uc.UpdateAddress(c.Request().Context(), addressID, input.toInput(middleware.UserID(c)))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, address)
}

// DeleteAddress removes one of the caller's addresses.
func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.NotFound(c, "Not found.")
	}

	if err := h.uc.DeleteAddress(c.Request().Context(), middleware.UserID(c), addressID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
