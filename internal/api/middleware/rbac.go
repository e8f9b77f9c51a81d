package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

var errRoleNotAllowed = domain.Forbidden("role_not_allowed",
	"Server Error: Could not process because the account type is not allowed")

// RequireRole admits principals holding one of roles. It must run after
// Authenticate.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFrom(c.Request().Context())
			if !ok {
				return errTokenRequired
			}
			if _, ok := allowed[p.Role]; !ok {
				return errRoleNotAllowed
			}
			return next(c)
		}
	}
}
