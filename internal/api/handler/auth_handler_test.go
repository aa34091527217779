package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/snakegame/snake-api/internal/api/middleware"
	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn       func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
	oauthURLFn     func(state string) (string, error)
	completeFn     func(ctx context.Context, code string) (*domain.User, error)
	setActiveFn    func(ctx context.Context, userID string, active bool) (*domain.User, error)

	destroyed []string
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAuthService) OAuthURL(state string) (string, error) {
	return s.oauthURLFn(state)
}

func (s *stubAuthService) CompleteOAuth(ctx context.Context, code string) (*domain.User, error) {
	return s.completeFn(ctx, code)
}

func (s *stubAuthService) CreateSession(_ context.Context, user *domain.User) (*ports.SessionToken, error) {
	return &ports.SessionToken{
		Value:   "token-for-" + user.ID,
		Session: &domain.Session{ID: "sess", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)},
	}, nil
}

func (s *stubAuthService) ResolveSession(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrSessionNotFound
}

func (s *stubAuthService) DestroySession(_ context.Context, token string) error {
	s.destroyed = append(s.destroyed, token)
	return nil
}

func (s *stubAuthService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	return s.setActiveFn(ctx, userID, active)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func newAuthHandler(stub *stubAuthService) *AuthHandler {
	return NewAuthHandler(stub, AuthHandlerOptions{ClientURL: "http://localhost:3000/"}, zerolog.Nop())
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(_ context.Context, in ports.SignupInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "a@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Username: in.Username, Email: in.Email}, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"username":" alice ","email":"a@example.com","password":"secret1"}`), rec)

	if err := newAuthHandler(stub).Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "User created successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" || user["username"] != "alice" || user["bestScore"] != float64(0) {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password must not be serialized")
	}

	cookie := findCookie(rec, middleware.SessionCookie)
	if cookie == nil || cookie.Value != "token-for-u1" || !cookie.HttpOnly {
		t.Fatalf("expected http-only session cookie, got %+v", cookie)
	}
}

func TestAuthHandler_Signup_ValidationErrors(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"username":"ab","email":"nope","password":"123"}`), rec)

	err := newAuthHandler(stub).Signup(c)
	var appErr *domain.Error
	if !errors.As(err, &appErr) || appErr.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	got := map[string]domain.FieldError{}
	for _, f := range appErr.Fields {
		got[f.Field] = f
	}
	for _, field := range []string{"username", "email", "password"} {
		if _, ok := got[field]; !ok {
			t.Fatalf("missing field error for %s: %+v", field, appErr.Fields)
		}
	}
	if got["email"].Message != "Please enter a valid email" {
		t.Fatalf("unexpected email message: %q", got["email"].Message)
	}
	if got["password"].Value != nil {
		t.Fatalf("password value must not be echoed back")
	}
}

func TestAuthHandler_Signup_Conflict(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"username":"alice","email":"a@example.com","password":"secret1"}`), httptest.NewRecorder())

	if err := newAuthHandler(stub).Signup(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		authenticateFn: func(_ context.Context, email, password string) (*domain.User, error) {
			if email != "a@example.com" || password != "secret1" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &domain.User{ID: "u1", Username: "alice", Email: email, BestScore: 40}, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"a@example.com","password":"secret1"}`), rec)

	if err := newAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"bestScore":40`) {
		t.Fatalf("expected best score in body: %s", rec.Body.String())
	}
	if findCookie(rec, middleware.SessionCookie) == nil {
		t.Fatalf("expected session cookie")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		authenticateFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"a@example.com","password":"wrong"}`), rec)

	if err := newAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if findCookie(rec, middleware.SessionCookie) != nil {
		t.Fatalf("no cookie should be set on failure")
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":`), httptest.NewRecorder())

	err := newAuthHandler(&stubAuthService{}).Login(c)
	var appErr *domain.Error
	if !errors.As(err, &appErr) || appErr.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{}
	h := newAuthHandler(stub)

	t.Run("without session", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), httptest.NewRecorder())
		if err := h.Logout(c); !errors.Is(err, domain.ErrNotLoggedIn) {
			t.Fatalf("expected ErrNotLoggedIn, got %v", err)
		}
	})

	t.Run("with session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)
		c.Set(middleware.UserKey, &domain.User{ID: "u1"})
		c.Set(middleware.TokenKey, "tok")

		if err := h.Logout(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if len(stub.destroyed) != 1 || stub.destroyed[0] != "tok" {
			t.Fatalf("session not destroyed: %v", stub.destroyed)
		}
		cookie := findCookie(rec, middleware.SessionCookie)
		if cookie == nil || cookie.MaxAge >= 0 {
			t.Fatalf("expected cookie to be cleared, got %+v", cookie)
		}
	})
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), rec)
	c.Set(middleware.UserKey, &domain.User{ID: "u1", Username: "alice", Email: "a@example.com", GoogleID: "g-1", BestScore: 70})

	if err := newAuthHandler(&stubAuthService{}).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Success bool `json:"success"`
		User    struct {
			ID        string `json:"id"`
			BestScore int    `json:"bestScore"`
			GoogleID  bool   `json:"googleId"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.User.ID != "u1" || resp.User.BestScore != 70 || !resp.User.GoogleID {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestAuthHandler_GoogleStart(t *testing.T) {
	e := newTestEcho()
	var gotState string
	stub := &stubAuthService{
		oauthURLFn: func(state string) (string, error) {
			gotState = state
			return "https://accounts.example.com/auth?state=" + state, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/google", nil), rec)

	if err := newAuthHandler(stub).GoogleStart(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	cookie := findCookie(rec, oauthStateCookie)
	if cookie == nil || cookie.Value == "" || cookie.Value != gotState {
		t.Fatalf("state cookie must match the state sent to the provider: %+v", cookie)
	}
}

func TestAuthHandler_GoogleStart_NotConfigured(t *testing.T) {
	e := newTestEcho()
	unavailable := domain.NewUnavailableError("Google login is not configured")
	stub := &stubAuthService{
		oauthURLFn: func(string) (string, error) { return "", unavailable },
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/google", nil), httptest.NewRecorder())
	if err := newAuthHandler(stub).GoogleStart(c); !errors.Is(err, unavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestAuthHandler_GoogleCallback(t *testing.T) {
	cases := []struct {
		name       string
		cookie     string
		query      url.Values
		completeFn func(context.Context, string) (*domain.User, error)
		location   string
		session    bool
	}{
		{
			name:   "success",
			cookie: "st",
			query:  url.Values{"state": {"st"}, "code": {"abc"}},
			completeFn: func(_ context.Context, code string) (*domain.User, error) {
				if code != "abc" {
					return nil, errors.New("unexpected code")
				}
				return &domain.User{ID: "u9"}, nil
			},
			location: "http://localhost:3000/game",
			session:  true,
		},
		{
			name:     "state mismatch",
			cookie:   "st",
			query:    url.Values{"state": {"other"}, "code": {"abc"}},
			location: "http://localhost:3000/login?error=google_auth_failed",
		},
		{
			name:     "provider denied",
			cookie:   "st",
			query:    url.Values{"state": {"st"}, "error": {"access_denied"}},
			location: "http://localhost:3000/login?error=google_auth_failed",
		},
		{
			name:   "exchange fails",
			cookie: "st",
			query:  url.Values{"state": {"st"}, "code": {"abc"}},
			completeFn: func(context.Context, string) (*domain.User, error) {
				return nil, domain.ErrOAuthFailed
			},
			location: "http://localhost:3000/login?error=google_auth_failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAuthService{completeFn: tc.completeFn}
			if stub.completeFn == nil {
				stub.completeFn = func(context.Context, string) (*domain.User, error) {
					t.Fatalf("exchange must not run")
					return nil, nil
				}
			}

			req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?"+tc.query.Encode(), nil)
			req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: tc.cookie})
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := newAuthHandler(stub).GoogleCallback(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusTemporaryRedirect {
				t.Fatalf("expected 307, got %d", rec.Code)
			}
			if got := rec.Header().Get(echo.HeaderLocation); got != tc.location {
				t.Fatalf("expected redirect to %s, got %s", tc.location, got)
			}
			if got := findCookie(rec, middleware.SessionCookie) != nil; got != tc.session {
				t.Fatalf("session cookie set = %v, want %v", got, tc.session)
			}
		})
	}
}
