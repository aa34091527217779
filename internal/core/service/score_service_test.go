package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/snakegame/snake-api/internal/core/domain"
)

func newScoreFixture() (*scoreService, *stubUserRepo, *stubScoreRepo, *recordingTx, *domain.User) {
	users := newStubUserRepo()
	scores := &stubScoreRepo{}
	tx := &recordingTx{}
	svc := NewScoreService(users, scores, tx, zerolog.Nop()).(*scoreService)
	player := users.seed(&domain.User{Username: "abc", Email: "a@b.com", IsActive: true})
	return svc, users, scores, tx, player
}

func TestScoreService_Submit_RaisesBest(t *testing.T) {
	svc, users, scores, tx, player := newScoreFixture()
	ctx := context.Background()

	first, err := svc.Submit(ctx, player, 150)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !first.NewBest || first.BestScore != 150 || first.Score.Value != 150 || first.Score.Username != "abc" {
		t.Fatalf("unexpected first submission: %+v", first)
	}
	if player.BestScore != 150 {
		t.Fatalf("caller copy should reflect the new best, got %d", player.BestScore)
	}

	second, err := svc.Submit(ctx, player, 90)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if second.NewBest || second.BestScore != 150 {
		t.Fatalf("lower score must not change the best: %+v", second)
	}

	stored, _ := users.FindByID(ctx, player.ID)
	if stored.BestScore != 150 {
		t.Fatalf("persisted best = %d, want 150", stored.BestScore)
	}
	if len(scores.scores) != 2 || tx.calls != 2 {
		t.Fatalf("expected 2 stored scores in 2 transactions, got %d/%d", len(scores.scores), tx.calls)
	}
}

func TestScoreService_Submit_EqualScoreIsNotNewBest(t *testing.T) {
	svc, _, _, _, player := newScoreFixture()
	ctx := context.Background()

	if _, err := svc.Submit(ctx, player, 70); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	res, err := svc.Submit(ctx, player, 70)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.NewBest {
		t.Fatalf("tying the best score is not a new best")
	}
}

// The caller's cached best can lag behind the stored one; newBest must be
// judged against the stored value.
func TestScoreService_Submit_StaleCaller(t *testing.T) {
	svc, users, _, _, player := newScoreFixture()
	ctx := context.Background()

	if _, err := users.RaiseBestScore(ctx, player.ID, 300); err != nil {
		t.Fatalf("seed best: %v", err)
	}

	res, err := svc.Submit(ctx, player, 200)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.NewBest || res.BestScore != 300 {
		t.Fatalf("expected stored best to win, got %+v", res)
	}
}

func TestScoreService_Submit_Rejections(t *testing.T) {
	cases := map[string]struct {
		value int
		want  error
	}{
		"above ceiling": {value: domain.MaxPlausibleScore + 1, want: domain.ErrUnrealisticScore},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, users, scores, tx, player := newScoreFixture()

			if _, err := svc.Submit(context.Background(), player, tc.value); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(scores.scores) != 0 || tx.calls != 0 {
				t.Fatalf("nothing should be written")
			}
			stored, _ := users.FindByID(context.Background(), player.ID)
			if stored.BestScore != 0 {
				t.Fatalf("best score must be untouched")
			}
		})
	}

	t.Run("negative", func(t *testing.T) {
		svc, _, _, _, player := newScoreFixture()
		_, err := svc.Submit(context.Background(), player, -1)
		var appErr *domain.Error
		if !errors.As(err, &appErr) || appErr.Kind != domain.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("ceiling itself is accepted", func(t *testing.T) {
		svc, _, _, _, player := newScoreFixture()
		if _, err := svc.Submit(context.Background(), player, domain.MaxPlausibleScore); err != nil {
			t.Fatalf("score at the ceiling should pass: %v", err)
		}
	})
}

func TestScoreService_Submit_StorageFailure(t *testing.T) {
	svc, users, scores, _, player := newScoreFixture()
	boom := errors.New("write conflict")
	scores.failWith = boom

	if _, err := svc.Submit(context.Background(), player, 40); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	stored, _ := users.FindByID(context.Background(), player.ID)
	if stored.BestScore != 0 || player.BestScore != 0 {
		t.Fatalf("best score must not move when the insert fails")
	}
}

func TestScoreService_Recent(t *testing.T) {
	svc, _, _, _, player := newScoreFixture()
	ctx := context.Background()

	for _, v := range []int{10, 50, 30, 0, 90, 20, 70, 60, 40, 80, 100, 5} {
		if _, err := svc.Submit(ctx, player, v); err != nil {
			t.Fatalf("Submit(%d): %v", v, err)
		}
	}

	recent, err := svc.Recent(ctx, player)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != domain.RecentScoresLimit {
		t.Fatalf("expected %d scores, got %d", domain.RecentScoresLimit, len(recent))
	}
	if recent[0].Value != 100 || recent[len(recent)-1].Value != 10 {
		t.Fatalf("expected best-first ordering, got first=%d last=%d", recent[0].Value, recent[len(recent)-1].Value)
	}
}
