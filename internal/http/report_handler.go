package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskmind.com/taskmind/internal/reports"
	"taskmind.com/taskmind/internal/services"
)

func (h *Handler) ExportTasksReport(c echo.Context) error {
	data, err := h.reportService.ExportTasks(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return attachment(c, services.TasksReportFilename, data)
}

func (h *Handler) ExportUsersReport(c echo.Context) error {
	data, err := h.reportService.ExportUsers(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return attachment(c, services.UsersReportFilename, data)
}

func attachment(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, reports.ContentType, data)
}
