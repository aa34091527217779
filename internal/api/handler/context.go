package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/snakegame/snake-api/internal/api/middleware"
	"github.com/snakegame/snake-api/internal/core/domain"
)

// ctxUser returns the account injected by the session middleware and fails
// fast when the route was reached without one.
func ctxUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrNotAuthorized
	}
	return user, nil
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if n, ok := req.(interface{ normalize() }); ok {
		n.normalize()
	}
	return c.Validate(req)
}

// userSummary is the public view of an account.
type userSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	BestScore int    `json:"bestScore"`
}

func newUserSummary(u *domain.User) userSummary {
	return userSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		BestScore: u.BestScore,
	}
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
