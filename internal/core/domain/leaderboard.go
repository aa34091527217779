package domain

import "time"

// LeaderboardSize is the number of entries on the public page.
const LeaderboardSize = 10

type LeaderboardEntry struct {
	Rank     int       `json:"rank"`
	Username string    `json:"username"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Leaderboard is the public top page plus, for a signed-in caller, their own standing.
type Leaderboard struct {
	Entries   []LeaderboardEntry
	UserRank  *int64
	UserScore *int
}

// RankEntries numbers users already sorted by best score descending.
func RankEntries(users []*User) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			Username: u.Username,
			Score:    u.BestScore,
			JoinedAt: u.CreatedAt,
		})
	}
	return entries
}

// RankFor converts the number of strictly better players into a 1-based rank.
func RankFor(better int64) int64 {
	return better + 1
}
