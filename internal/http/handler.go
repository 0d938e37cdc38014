package http

import (
	"errors"

	"github.com/labstack/echo/v4"

	middleware "taskmind.com/taskmind/internal/http/middlewares"
	"taskmind.com/taskmind/internal/policy"
	"taskmind.com/taskmind/internal/services"
	"taskmind.com/taskmind/pkg/exceptions"
)

type Handler struct {
	authService      *services.AuthService
	taskService      *services.TaskService
	userService      *services.UserService
	dashboardService *services.DashboardService
	reportService    *services.ReportService
	uploadMaxBytes   int64
}

type HandlerDeps struct {
	Auth           *services.AuthService
	Tasks          *services.TaskService
	Users          *services.UserService
	Dashboard      *services.DashboardService
	Reports        *services.ReportService
	UploadMaxBytes int64
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		authService:      deps.Auth,
		taskService:      deps.Tasks,
		userService:      deps.Users,
		dashboardService: deps.Dashboard,
		reportService:    deps.Reports,
		uploadMaxBytes:   deps.UploadMaxBytes,
	}
}

// bind decodes the request body and reports malformed JSON uniformly.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return exceptions.ErrInvalidJSON
		}
		return err
	}
	return nil
}

func caller(c echo.Context) *policy.Caller {
	return middleware.CallerFrom(c)
}
