package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	middleware "taskmind.com/taskmind/internal/http/middlewares"
	"taskmind.com/taskmind/internal/ratelimit"
)

const jsonBodyHeadroom = 1 << 20

type RouterConfig struct {
	Logger             *slog.Logger
	Authenticator      middleware.Authenticator
	RateLimitStore     ratelimit.Store
	RateLimitPerMinute int
	ClientURL          string
	UploadDir          string
	UploadMaxBytes     int64
	Registry           *prometheus.Registry
}

// NewServer builds the echo instance with the global middleware chain and
// every route registered.
func NewServer(h *Handler, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(cfg.Logger)

	Register(e, h, cfg)
	return e
}

func Register(e *echo.Echo, h *Handler, cfg RouterConfig) {
	metrics := middleware.NewMetrics(cfg.Registry)

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: allowedOrigins(cfg.ClientURL),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit(bodyLimit(cfg.UploadMaxBytes)))
	e.Use(middleware.RateLimiter(cfg.RateLimitStore, cfg.RateLimitPerMinute, time.Minute, cfg.Logger))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	if cfg.UploadDir != "" {
		e.Static("/uploads", cfg.UploadDir)
	}

	authenticated := middleware.Authenticate(cfg.Authenticator)
	adminOnly := middleware.RequireAdmin()

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/getprofile", h.GetProfile, authenticated)
	authGroup.PUT("/updateprofile", h.UpdateProfile, authenticated)
	authGroup.POST("/upload-image", h.UploadImage)

	tasks := api.Group("/task", authenticated)
	tasks.GET("/dashboard-data", h.GlobalDashboard, adminOnly)
	tasks.GET("/user-dashboard-data", h.UserDashboard)
	tasks.GET("", h.ListTasks)
	tasks.GET("/:id", h.GetTask)
	tasks.POST("", h.CreateTask, adminOnly)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask, adminOnly)
	tasks.PUT("/:id/status", h.UpdateTaskStatus)
	tasks.PUT("/:id/todo", h.UpdateTaskChecklist)

	users := api.Group("/users", authenticated)
	users.GET("", h.ListUsers, adminOnly)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser, adminOnly)

	report := api.Group("/report", authenticated, adminOnly)
	report.GET("/export/tasks", h.ExportTasksReport)
	report.GET("/export/users", h.ExportUsersReport)
}

func allowedOrigins(clientURL string) []string {
	var origins []string
	for _, o := range strings.Split(clientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// bodyLimit leaves room for multipart framing around the largest upload.
func bodyLimit(uploadMax int64) string {
	if uploadMax <= 0 {
		uploadMax = 5 << 20
	}
	return fmt.Sprintf("%dK", (uploadMax+jsonBodyHeadroom)/1024)
}
