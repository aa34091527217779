package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/snakegame/snake-api/internal/api/metrics"
	"github.com/snakegame/snake-api/internal/core/domain"
	"github.com/snakegame/snake-api/internal/core/ports"
)

// GameHandler serves score submission and personal history.
type GameHandler struct {
	scores ports.ScoreService
}

func NewGameHandler(scores ports.ScoreService) *GameHandler {
	return &GameHandler{scores: scores}
}

type submitScoreRequest struct {
	Score *int `json:"score" validate:"required,min=0,max=1000000"`
}

type scoreView struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func newScoreView(s *domain.Score) scoreView {
	return scoreView{ID: s.ID, Score: s.Value, CreatedAt: s.CreatedAt}
}

type submitScoreResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Score     scoreView `json:"score"`
	BestScore int       `json:"bestScore"`
	NewBest   bool      `json:"newBest"`
}

type scoresResponse struct {
	Success bool        `json:"success"`
	Scores  []scoreView `json:"scores"`
}

// SubmitScore records a finished game.
//
// @Summary      Submit a score
// @Tags         game
// @Accept       json
// @Produce      json
// @Param        body  body      submitScoreRequest  true  "Final score"
// @Success      201   {object}  submitScoreResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Router       /game/score [post]
func (h *GameHandler) SubmitScore(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req submitScoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.scores.Submit(c.Request().Context(), user, *req.Score)
	if err != nil {
		if errors.Is(err, domain.ErrUnrealisticScore) {
			metrics.ScoresSubmittedTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	outcome := "accepted"
	if result.NewBest {
		outcome = "new_best"
	}
	metrics.ScoresSubmittedTotal.WithLabelValues(outcome).Inc()
	metrics.ScoreValues.Observe(float64(result.Score.Value))

	return c.JSON(http.StatusCreated, submitScoreResponse{
		Success:   true,
		Message:   "Score saved successfully",
		Score:     newScoreView(result.Score),
		BestScore: result.BestScore,
		NewBest:   result.NewBest,
	})
}

// Scores lists the caller's best recent games.
//
// @Summary      Personal scores
// @Tags         game
// @Produce      json
// @Success      200  {object}  scoresResponse
// @Failure      401  {object}  api.errorResponse
// @Router       /game/scores [get]
func (h *GameHandler) Scores(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	scores, err := h.scores.Recent(c.Request().Context(), user)
	if err != nil {
		return err
	}

	views := make([]scoreView, 0, len(scores))
	for _, s := range scores {
		views = append(views, newScoreView(s))
	}
	return c.JSON(http.StatusOK, scoresResponse{Success: true, Scores: views})
}
