package domain

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure the API can report to a client.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimited
	KindDatabase
	KindUnavailable
)

var kindNames = map[ErrorKind]string{
	KindInternal:       "internal",
	KindValidation:     "validation",
	KindAuthentication: "authentication",
	KindAuthorization:  "authorization",
	KindNotFound:       "not_found",
	KindConflict:       "conflict",
	KindRateLimited:    "rate_limited",
	KindDatabase:       "database",
	KindUnavailable:    "unavailable",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// HTTPStatus maps the kind onto the response status code.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error is the single error type surfaced by services and rendered by the API.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%d invalid fields)", e.Kind, e.Message, len(e.Fields))
}

// StatusCode is a shortcut for e.Kind.HTTPStatus().
func (e *Error) StatusCode() int {
	return e.Kind.HTTPStatus()
}

func NewValidationError(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NewAuthenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewRateLimitError(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

func NewDatabaseError(message string) *Error {
	return &Error{Kind: KindDatabase, Message: message}
}

func NewUnavailableError(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

// Sentinel errors. Compare with errors.Is; they keep their identity when wrapped.
var (
	ErrInvalidCredentials = NewAuthenticationError("Invalid email or password")
	ErrAccountDisabled    = NewAuthenticationError("Account is disabled")
	ErrNotLoggedIn        = NewAuthenticationError("Not logged in")
	ErrNotAuthorized      = NewAuthenticationError("Not authorized to access this route")
	ErrSessionNotFound    = NewAuthenticationError("Session expired or invalid")
	ErrAdminRequired      = NewAuthorizationError("Admin access required")
	ErrUserNotFound       = NewNotFoundError("User not found")
	ErrEmailTaken         = NewConflictError("User with this email already exists")
	ErrUsernameTaken      = NewConflictError("Username already taken")
	ErrUnrealisticScore   = NewValidationError("Score seems unrealistic. Please play fairly!")
	ErrTooManyRequests    = NewRateLimitError("Too many requests. Please try again later.")
	ErrOAuthFailed        = NewAuthenticationError("Google authentication failed")
)
