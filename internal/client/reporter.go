package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOffline is returned by Report when there is no signed-in session; the
// score only updates the local best.
var ErrOffline = errors.New("not signed in, score kept locally")

type ScoreSubmitter interface {
	SubmitScore(ctx context.Context, score int) (*ScoreResult, error)
}

// Outcome is what the player sees after a finished game.
type Outcome struct {
	Score     int
	BestScore int
	NewBest   bool
}

// Reporter submits final scores and tracks the player's best score. It
// never retries.
type Reporter struct {
	api     ScoreSubmitter
	timeout time.Duration

	mu   sync.Mutex
	best int
}

// NewReporter starts from best, usually the signed-in user's BestScore. A nil
// api makes every report local.
func NewReporter(api ScoreSubmitter, best int) *Reporter {
	return &Reporter{api: api, timeout: defaultTimeout, best: best}
}

func (r *Reporter) Best() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.best
}

// Report sends score once. On failure the local best is left untouched and
// the error is returned for display.
func (r *Reporter) Report(ctx context.Context, score int) (Outcome, error) {
	if r.api == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		out := Outcome{Score: score, NewBest: score > r.best}
		r.best = max(r.best, score)
		out.BestScore = r.best
		return out, ErrOffline
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.api.SubmitScore(ctx, score)
	if err != nil {
		return Outcome{Score: score, BestScore: r.Best()}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.best = max(r.best, res.BestScore)
	return Outcome{Score: score, BestScore: r.best, NewBest: res.NewBest}, nil
}
