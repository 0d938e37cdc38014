package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/http/validators"
	"taskmind.com/taskmind/pkg/constants"
)

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), caller(c), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), caller(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	var status constants.TaskStatus
	if raw := c.QueryParam("status"); raw != "" {
		s, err := validators.ParseStatus(raw)
		if err != nil {
			return err
		}
		status = s
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), caller(c), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var req dto.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch, err := validators.ValidateUpdateTaskRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), caller(c), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	var req dto.UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	status, err := validators.ValidateUpdateStatusRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTaskStatus(c.Request().Context(), caller(c), c.Param("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTaskChecklist(c echo.Context) error {
	var req dto.UpdateChecklistRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	items, err := validators.ValidateUpdateChecklistRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTaskChecklist(c.Request().Context(), caller(c), c.Param("id"), items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(c.Request().Context(), caller(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

func (h *Handler) GlobalDashboard(c echo.Context) error {
	d, err := h.dashboardService.GlobalDashboard(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UserDashboard(c echo.Context) error {
	d, err := h.dashboardService.UserDashboard(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
