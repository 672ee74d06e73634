package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"feedhub/internal/auth"
	"feedhub/internal/service"
)

// UserHandler handles the authenticated user's status endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateStatusRequest represents a status update.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// StatusResponse carries the user's status text.
type StatusResponse struct {
	Status string `json:"status"`
}

// GetStatus godoc
// @Summary Get the caller's status
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatusResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /status [get]
func (h *UserHandler) GetStatus(c echo.Context) error {
	identity := auth.IdentityFrom(c)

	status, err := h.userService.GetStatus(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatusResponse{Status: status})
}

// UpdateStatus godoc
// @Summary Update the caller's status
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /status [patch]
func (h *UserHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity := auth.IdentityFrom(c)
	if _, err := h.userService.UpdateStatus(c.Request().Context(), identity.UserID, req.Status); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "User updated.",
	})
}
