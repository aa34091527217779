package service

import (
	"context"
	"fmt"

	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

type leaderboardService struct {
	users ports.UserRepository
	size  int
}

func NewLeaderboardService(users ports.UserRepository, size int) ports.LeaderboardService {
	if size <= 0 {
		size = domain.LeaderboardSize
	}
	return &leaderboardService{users: users, size: size}
}

// Top lists the best players. The caller's rank is counted independently of
// the page, so it is correct even when the caller is not on it.
func (s *leaderboardService) Top(ctx context.Context, caller *domain.User) (*domain.Leaderboard, error) {
	users, err := s.users.TopByBestScore(ctx, s.size)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	board := &domain.Leaderboard{Entries: domain.RankEntries(users)}
	if caller == nil {
		return board, nil
	}

	better, err := s.users.CountActiveAbove(ctx, caller.BestScore)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: caller rank: %w", err)
	}

	rank := domain.RankFor(better)
	score := caller.BestScore
	board.UserRank = &rank
	board.UserScore = &score
	return board, nil
}
