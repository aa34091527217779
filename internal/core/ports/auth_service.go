package ports

import (
	"context"

	"github.com/snakegame/snake-api/internal/core/domain"
)

// SignupInput carries a new local account. Fields are validated by the caller.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// SessionToken is the signed cookie value handed to the client.
type SessionToken struct {
	Value   string
	Session *domain.Session
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	// Authenticate checks local credentials and records the login.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	OAuthURL(state string) (string, error)
	// CompleteOAuth exchanges the provider code and returns the linked account.
	CompleteOAuth(ctx context.Context, code string) (*domain.User, error)

	CreateSession(ctx context.Context, user *domain.User) (*SessionToken, error)
	// ResolveSession returns the active account behind a cookie token.
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
	DestroySession(ctx context.Context, token string) error

	SetActive(ctx context.Context, userID string, active bool) (*domain.User, error)
}

type ScoreService interface {
	Submit(ctx context.Context, user *domain.User, value int) (*domain.ScoreSubmission, error)
	Recent(ctx context.Context, user *domain.User) ([]*domain.Score, error)
}

type LeaderboardService interface {
	// Top returns the public page; caller may be nil for anonymous requests.
	Top(ctx context.Context, caller *domain.User) (*domain.Leaderboard, error)
}
