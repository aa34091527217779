package ports

import (
	"context"
	"time"

	"github.com/snakegame/snake-api/internal/core/domain"
)

// SessionStore keeps the server side of a login. Get returns
// domain.ErrSessionNotFound for unknown or expired sessions.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenCodec signs and verifies the session cookie value.
type TokenCodec interface {
	Encode(claims domain.SessionClaims) (string, error)
	Decode(token string) (domain.SessionClaims, error)
}

// IdentityProvider performs a redirect-based third-party login.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error)
}

// RateDecision is the outcome of one rate limiter check.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter counts requests per key inside a sliding window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}

// ErrorReporter forwards unexpected failures to an external tracker.
type ErrorReporter interface {
	Capture(err error, tags map[string]string)
}
