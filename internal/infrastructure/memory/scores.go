package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

// ScoreRepository is an in-memory implementation of ports.ScoreRepository.
type ScoreRepository struct {
	mu     sync.RWMutex
	scores []*domain.Score
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{}
}

var _ ports.ScoreRepository = (*ScoreRepository)(nil)

func (r *ScoreRepository) Insert(_ context.Context, score *domain.Score) (*domain.Score, error) {
	stored := *score
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	r.mu.Lock()
	r.scores = append(r.scores, &stored)
	r.mu.Unlock()

	out := stored
	return &out, nil
}

func (r *ScoreRepository) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Score, error) {
	r.mu.RLock()
	var owned []*domain.Score
	for _, s := range r.scores {
		if s.UserID == userID {
			c := *s
			owned = append(owned, &c)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(owned, func(a, b *domain.Score) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if limit > 0 && len(owned) > limit {
		owned = owned[:limit]
	}
	return owned, nil
}

// Count reports how many scores are stored.
func (r *ScoreRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scores)
}

// Transactor runs units of work directly; the in-memory stores apply each
// write under their own lock.
type Transactor struct{}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
