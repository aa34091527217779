package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/snakegame/snake-api/internal/api/metrics"
	"github.com/snakegame/snake-api/internal/api/middleware"
	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

const (
	oauthStateCookie = "snake.oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// AuthHandlerOptions configures cookies and redirects.
type AuthHandlerOptions struct {
	// ClientURL is where the OAuth callback sends the browser afterwards.
	ClientURL string
	// SecureCookies marks cookies HTTPS-only.
	SecureCookies bool
}

type AuthHandler struct {
	authService ports.AuthService
	opts        AuthHandlerOptions
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, opts AuthHandlerOptions, log zerolog.Logger) *AuthHandler {
	opts.ClientURL = strings.TrimRight(opts.ClientURL, "/")
	return &AuthHandler{authService: authService, opts: opts, log: log}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *signupRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type meUser struct {
	userSummary
	GoogleID bool `json:"googleId"`
}

type meResponse struct {
	Success bool   `json:"success"`
	User    meUser `json:"user"`
}

// Signup creates a local account and opens a session.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      409   {object}  api.errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.SignupsTotal.WithLabelValues("local").Inc()

	if err := h.startSession(c, user); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "User created successfully",
		User:    newUserSummary(user),
	})
}

// Login authenticates with email and password and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("local", "failure").Inc()
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("local", "success").Inc()

	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "Logged in successfully",
		User:    newUserSummary(user),
	})
}

// GoogleStart redirects the browser to Google's consent screen.
//
// @Summary      Start Google login
// @Tags         auth
// @Success      307
// @Failure      503   {object}  api.errorResponse
// @Router       /auth/google [get]
func (h *AuthHandler) GoogleStart(c echo.Context) error {
	state := uuid.NewString()
	target, err := h.authService.OAuthURL(state)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

// GoogleCallback completes the Google login and redirects to the client.
//
// @Summary      Google login callback
// @Tags         auth
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "Anti-forgery state"
// @Success      307
// @Router       /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	fail := func(reason string, err error) error {
		h.log.Warn().Err(err).Str("reason", reason).Msg("google login failed")
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return c.Redirect(http.StatusTemporaryRedirect, h.opts.ClientURL+"/login?error=google_auth_failed")
	}

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		return fail("state mismatch", err)
	}
	h.clearCookie(c, oauthStateCookie, "/api/auth/google")

	if providerErr := c.QueryParam("error"); providerErr != "" {
		return fail(providerErr, nil)
	}

	user, err := h.authService.CompleteOAuth(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return fail("exchange", err)
	}
	if err := h.startSession(c, user); err != nil {
		return fail("session", err)
	}

	metrics.LoginsTotal.WithLabelValues("google", "success").Inc()
	return c.Redirect(http.StatusTemporaryRedirect, h.opts.ClientURL+"/game")
}

// Logout destroys the current session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  api.errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if middleware.CurrentUser(c) == nil {
		return domain.ErrNotLoggedIn
	}

	if err := h.authService.DestroySession(c.Request().Context(), middleware.SessionToken(c)); err != nil {
		return err
	}
	h.clearCookie(c, middleware.SessionCookie, "/")

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}

// Me returns the signed-in account.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  api.errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meResponse{
		Success: true,
		User: meUser{
			userSummary: newUserSummary(user),
			GoogleID:    user.GoogleID != "",
		},
	})
}

func (h *AuthHandler) startSession(c echo.Context, user *domain.User) error {
	token, err := h.authService.CreateSession(c.Request().Context(), user)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearCookie(c echo.Context, name, path string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
	})
}
