package client

import "time"

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	BestScore int    `json:"bestScore"`
	GoogleID  bool   `json:"googleId,omitempty"`
}

type authResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type Score struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

type ScoreResult struct {
	Message   string `json:"message"`
	Score     Score  `json:"score"`
	BestScore int    `json:"bestScore"`
	NewBest   bool   `json:"newBest"`
}

type LeaderboardEntry struct {
	Rank     int       `json:"rank"`
	Username string    `json:"username"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`
}

type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"leaderboard"`
	UserRank  *int64             `json:"userRank,omitempty"`
	UserScore *int               `json:"userScore,omitempty"`
}

type Health struct {
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}
