package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/http/validators"
)

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsersWithTaskCounts(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	user, err := h.userService.GetUser(c.Request().Context(), caller(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), caller(c), c.Param("id"), validators.ValidateUpdateUserRequest(&req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.userService.DeleteUser(c.Request().Context(), caller(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
