package exceptions

import "net/http"

// Request errors.
var (
	ErrInvalidJSON = &Exception{
		Message:    "invalid JSON payload",
		StatusCode: http.StatusBadRequest,
	}
	ErrInvalidStatus = &Exception{
		Message:    "invalid status",
		StatusCode: http.StatusBadRequest,
		Fields:     map[string]string{"status": "must be one of Pending, In Progress, Completed"},
	}
	ErrInvalidPriority = &Exception{
		Message:    "invalid priority",
		StatusCode: http.StatusBadRequest,
		Fields:     map[string]string{"priority": "must be one of Low, Medium, High"},
	}
	ErrRateLimited = &Exception{
		Message:    "rate limit exceeded",
		StatusCode: http.StatusTooManyRequests,
	}
)

// Authentication and access.
var (
	ErrUnauthenticated = &Exception{
		Message:    "not authorized, token missing or invalid",
		StatusCode: http.StatusUnauthorized,
	}
	ErrInvalidCredentials = &Exception{
		Message:    "invalid credentials",
		StatusCode: http.StatusUnauthorized,
	}
	ErrForbidden = &Exception{
		Message:    "access denied",
		StatusCode: http.StatusForbidden,
	}
	ErrAssigneeFieldForbidden = &Exception{
		Message:    "assignees may only change status and checklist",
		StatusCode: http.StatusForbidden,
	}
)

// Store outcomes.
var (
	ErrTaskNotFound = &Exception{
		Message:    "task not found",
		StatusCode: http.StatusNotFound,
	}
	ErrUserNotFound = &Exception{
		Message:    "user not found",
		StatusCode: http.StatusNotFound,
	}
	ErrEmailTaken = &Exception{
		Message:    "user already exists",
		StatusCode: http.StatusConflict,
	}
	ErrOptimisticLock = &Exception{
		Message:    "task was modified concurrently, reload and retry",
		StatusCode: http.StatusConflict,
	}
)
