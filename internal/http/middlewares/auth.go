package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"taskmind.com/taskmind/internal/policy"
	"taskmind.com/taskmind/pkg/exceptions"
)

const callerKey = "caller"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*policy.Caller, error)
}

// Authenticate resolves the bearer token and stores the caller for the
// handler to pick up with CallerFrom.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return exceptions.ErrUnauthenticated
			}

			caller, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFrom(c)
			if caller == nil {
				return exceptions.ErrUnauthenticated
			}
			if !caller.IsAdmin() {
				return exceptions.ErrForbidden
			}
			return next(c)
		}
	}
}

func CallerFrom(c echo.Context) *policy.Caller {
	caller, _ := c.Get(callerKey).(*policy.Caller)
	return caller
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
