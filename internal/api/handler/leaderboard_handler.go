package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snakegame/snake-api/internal/api/middleware"
	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

type LeaderboardHandler struct {
	leaderboard ports.LeaderboardService
}

func NewLeaderboardHandler(leaderboard ports.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

type leaderboardResponse struct {
	Success     bool                      `json:"success"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	UserRank    *int64                    `json:"userRank,omitempty"`
	UserScore   *int                      `json:"userScore,omitempty"`
}

// Top returns the public leaderboard, plus the caller's rank when signed in.
//
// @Summary      Leaderboard
// @Tags         leaderboard
// @Produce      json
// @Success      200  {object}  leaderboardResponse
// @Router       /leaderboard [get]
func (h *LeaderboardHandler) Top(c echo.Context) error {
	board, err := h.leaderboard.Top(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}

	entries := board.Entries
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return c.JSON(http.StatusOK, leaderboardResponse{
		Success:     true,
		Leaderboard: entries,
		UserRank:    board.UserRank,
		UserScore:   board.UserScore,
	})
}
