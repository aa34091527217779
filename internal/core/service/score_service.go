package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

type scoreService struct {
	users  ports.UserRepository
	scores ports.ScoreRepository
	tx     ports.Transactor
	now    func() time.Time
	log    zerolog.Logger
}

// NewScoreService returns a ScoreService implementation.
func NewScoreService(
	users ports.UserRepository,
	scores ports.ScoreRepository,
	tx ports.Transactor,
	log zerolog.Logger,
) ports.ScoreService {
	return &scoreService{
		users:  users,
		scores: scores,
		tx:     tx,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

// Submit stores a finished game and raises the owner's best score when it is
// strictly greater. Both writes share one unit of work.
func (s *scoreService) Submit(ctx context.Context, user *domain.User, value int) (*domain.ScoreSubmission, error) {
	if value < 0 {
		return nil, domain.NewValidationError("Score must be a non-negative integer")
	}
	if err := domain.CheckPlausible(value); err != nil {
		s.log.Warn().Str("user_id", user.ID).Int("score", value).Msg("implausible score rejected")
		return nil, err
	}

	var result *domain.ScoreSubmission
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.scores.Insert(ctx, domain.NewScore(user, value, s.now()))
		if err != nil {
			return fmt.Errorf("insert score: %w", err)
		}

		previous, err := s.users.RaiseBestScore(ctx, user.ID, value)
		if err != nil {
			return fmt.Errorf("raise best score: %w", err)
		}

		result = &domain.ScoreSubmission{
			Score:     stored,
			BestScore: max(previous, value),
			NewBest:   value > previous,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit score: %w", err)
	}

	user.ApplyScore(value)

	s.log.Info().
		Str("user_id", user.ID).
		Int("score", value).
		Bool("new_best", result.NewBest).
		Msg("score recorded")

	return result, nil
}

func (s *scoreService) Recent(ctx context.Context, user *domain.User) ([]*domain.Score, error) {
	scores, err := s.scores.ListByUser(ctx, user.ID, domain.RecentScoresLimit)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores, nil
}
