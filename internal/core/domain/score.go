package domain

import "time"

const (
	// MaxPlausibleScore is the sanity ceiling for a single game.
	MaxPlausibleScore = 10000
	// RecentScoresLimit bounds the personal score history returned to a player.
	RecentScoresLimit = 10
)

// Score is an immutable record of one finished game.
type Score struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Username  string    `json:"username"`
	Value     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewScore snapshots the owner's username next to the value.
func NewScore(user *User, value int, now time.Time) *Score {
	return &Score{
		UserID:    user.ID,
		Username:  user.Username,
		Value:     value,
		CreatedAt: now,
	}
}

// CheckPlausible rejects scores no honest game can reach.
func CheckPlausible(value int) error {
	if value > MaxPlausibleScore {
		return ErrUnrealisticScore
	}
	return nil
}

// ScoreSubmission is the outcome of recording a score.
type ScoreSubmission struct {
	Score     *Score
	BestScore int
	NewBest   bool
}
