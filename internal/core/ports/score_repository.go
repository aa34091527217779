package ports

import (
	"context"

	"github.com/snakegame/snake-api/internal/core/domain"
)

// ScoreRepository persists finished games. Records are never updated.
type ScoreRepository interface {
	Insert(ctx context.Context, score *domain.Score) (*domain.Score, error)
	// ListByUser returns the user's scores, highest first, most recent first on ties.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Score, error)
}

// Transactor runs fn as one unit of work. Implementations that cannot offer
// a transaction run fn directly.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
