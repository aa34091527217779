package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/snakegame/snake-api/internal/core/domain"
)

// RequireAdmin enforces the admin flag. It must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrNotAuthorized
			}
			if !user.IsAdmin {
				return domain.ErrAdminRequired
			}
			return next(c)
		}
	}
}
