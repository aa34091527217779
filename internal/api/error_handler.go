package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

// errorBody is the canonical error payload.
type errorBody struct {
	Message          string              `json:"message"`
	ValidationErrors []domain.FieldError `json:"validationErrors,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Translates domain and library errors into domain.Error kinds.
//   - Logs and reports server-side failures without leaking details.
//   - Renders {"success": false, "error": {"message", "validationErrors"}}.
func NewHTTPErrorHandler(log zerolog.Logger, reporter ports.ErrorReporter) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := translateError(err, c)
		status := appErr.StatusCode()

		if status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("kind", appErr.Kind.String()).
				Msg("request failed")
			if reporter != nil {
				reporter.Capture(err, map[string]string{
					"method": c.Request().Method,
					"path":   c.Path(),
				})
			}
		}

		body := errorResponse{Error: errorBody{
			Message:          appErr.Message,
			ValidationErrors: appErr.Fields,
		}}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

var dupKeyPattern = regexp.MustCompile(`index: (?:\w+\.\$)?(\w+?)_-?1`)

// conflictFields names unique indexes the way clients see them.
var conflictFields = map[string]string{
	"email":     "Email",
	"username":  "Username",
	"google_id": "Google account",
}

// translateError maps every error onto the domain.Error taxonomy.
func translateError(err error, c echo.Context) *domain.Error {
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	// Echo's own errors (bind failures, unknown routes, body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return domain.NewNotFoundError(fmt.Sprintf("Route %s not found", c.Request().URL.Path))
		case http.StatusBadRequest, http.StatusUnsupportedMediaType:
			return domain.NewValidationError("Invalid request payload")
		case http.StatusRequestEntityTooLarge:
			return domain.NewValidationError("Request body too large")
		case http.StatusUnauthorized:
			return domain.NewAuthenticationError(fmt.Sprintf("%v", he.Message))
		case http.StatusForbidden:
			return domain.NewAuthorizationError(fmt.Sprintf("%v", he.Message))
		case http.StatusTooManyRequests:
			return domain.ErrTooManyRequests
		}
		return &domain.Error{Kind: kindForStatus(he.Code), Message: http.StatusText(he.Code)}
	}

	switch {
	case errors.Is(err, primitive.ErrInvalidHex):
		return domain.NewValidationError("Invalid resource ID")
	case mongo.IsDuplicateKeyError(err):
		return domain.NewConflictError(fmt.Sprintf("%s already exists", duplicateField(err)))
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.NewAuthenticationError("Token expired")
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.NewAuthenticationError("Invalid token")
	case isConnectionError(err):
		return domain.NewUnavailableError("Network error. Please try again.")
	case isDatabaseError(err):
		return domain.NewDatabaseError("Database connection error")
	}

	return &domain.Error{Kind: domain.KindInternal, Message: "Server Error"}
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.ErrClosed) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isDatabaseError(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return true
	}
	var redisErr redis.Error
	return errors.As(err, &redisErr)
}

// duplicateField extracts the indexed field from a Mongo E11000 message.
func duplicateField(err error) string {
	m := dupKeyPattern.FindStringSubmatch(err.Error())
	if len(m) != 2 {
		return "Resource"
	}
	if name, ok := conflictFields[m[1]]; ok {
		return name
	}
	return strings.ToUpper(m[1][:1]) + m[1][1:]
}

func kindForStatus(code int) domain.ErrorKind {
	switch {
	case code == http.StatusServiceUnavailable:
		return domain.KindUnavailable
	case code >= http.StatusInternalServerError:
		return domain.KindInternal
	case code == http.StatusConflict:
		return domain.KindConflict
	default:
		return domain.KindValidation
	}
}
