package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/snakegame/snake-api/internal/core/domain"
)

const (
	// SessionCookie names the cookie holding the signed session token.
	SessionCookie = "snake.sid"

	UserKey  = "user"
	TokenKey = "session_token"
)

// SessionResolver turns a cookie token into the account it belongs to.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// RequireAuth rejects requests without a valid session and injects the
// account into the context.
func RequireAuth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return domain.ErrNotAuthorized
			}

			user, err := resolver.ResolveSession(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}

			c.Set(UserKey, user)
			c.Set(TokenKey, cookie.Value)
			return next(c)
		}
	}
}

// OptionalAuth injects the account when a valid session is present and
// otherwise lets the request through anonymously.
func OptionalAuth(resolver SessionResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := resolver.ResolveSession(c.Request().Context(), cookie.Value)
			if err != nil {
				var appErr *domain.Error
				if !errors.As(err, &appErr) {
					log.Debug().Err(err).Msg("ignoring unusable session cookie")
				}
				return next(c)
			}

			c.Set(UserKey, user)
			c.Set(TokenKey, cookie.Value)
			return next(c)
		}
	}
}

// CurrentUser returns the account injected by RequireAuth or OptionalAuth.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserKey).(*domain.User)
	return user
}

// SessionToken returns the cookie token of the current request, if any.
func SessionToken(c echo.Context) string {
	token, _ := c.Get(TokenKey).(string)
	return token
}
