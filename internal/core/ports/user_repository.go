package ports

import (
	"context"
	"time"

	"github.com/snakegame/snake-api/internal/core/domain"
)

// UserRepository defines the persistence contract for player accounts.
// Lookups that find nothing return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)

	LinkGoogleID(ctx context.Context, id, googleID string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)

	// RaiseBestScore sets bestScore to max(bestScore, score) in one atomic
	// update and returns the value held before the update.
	RaiseBestScore(ctx context.Context, id string, score int) (previous int, err error)

	// TopByBestScore lists active users by best score descending, ties by id.
	TopByBestScore(ctx context.Context, limit int) ([]*domain.User, error)
	// CountActiveAbove counts active users whose best score is strictly greater.
	CountActiveAbove(ctx context.Context, score int) (int64, error)
}
