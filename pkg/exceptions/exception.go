package exceptions

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
	Fields     map[string]string
}

func (e *Exception) Error() string {
	return e.Message
}

// Validation builds a 400 exception carrying per-field detail.
func Validation(message string, fields map[string]string) *Exception {
	return &Exception{
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Fields:     fields,
	}
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether err maps to a 4xx response.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500
}
