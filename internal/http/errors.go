package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskmind.com/taskmind/pkg/exceptions"
)

type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewErrorHandler renders every error as {"message", "fields"}. Anything
// that is not a known exception becomes a logged 500.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("write error response", "error", writeErr)
		}
	}
}

func render(err error) (int, errorResponse) {
	var appErr *exceptions.Exception
	if errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError {
		return appErr.StatusCode, errorResponse{Message: appErr.Message, Fields: appErr.Fields}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, errorResponse{Message: msg}
	}

	return http.StatusInternalServerError, errorResponse{Message: "Server error"}
}
