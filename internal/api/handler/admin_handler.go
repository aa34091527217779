package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/snakegame/snake-api/internal/core/ports"
)

type AdminHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAdminHandler(authService ports.AuthService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{authService: authService, log: log}
}

type setActiveRequest struct {
	ID     string `param:"id" json:"-"`
	Active *bool  `json:"active" validate:"required"`
}

type adminUser struct {
	userSummary
	IsActive bool `json:"isActive"`
	IsAdmin  bool `json:"isAdmin"`
}

type adminUserResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	User    adminUser `json:"user"`
}

// SetActive enables or disables an account.
//
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "User ID"
// @Param        body  body      setActiveRequest  true  "Desired state"
// @Success      200   {object}  adminUserResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /admin/users/{id}/active [patch]
func (h *AdminHandler) SetActive(c echo.Context) error {
	var req setActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.SetActive(c.Request().Context(), req.ID, *req.Active)
	if err != nil {
		return err
	}

	actor, _ := ctxUser(c)
	event := h.log.Info().Str("user_id", user.ID).Bool("active", user.IsActive)
	if actor != nil {
		event = event.Str("admin_id", actor.ID)
	}
	event.Msg("account status changed")

	message := "User deactivated"
	if user.IsActive {
		message = "User activated"
	}
	return c.JSON(http.StatusOK, adminUserResponse{
		Success: true,
		Message: message,
		User: adminUser{
			userSummary: newUserSummary(user),
			IsActive:    user.IsActive,
			IsAdmin:     user.IsAdmin,
		},
	})
}
