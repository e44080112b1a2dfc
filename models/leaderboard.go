package models

// LeaderboardEntry is one participant row on the leaderboard. Rank is
// assigned by the aggregator, not stored.
type LeaderboardEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	GreenUnits int    `json:"greenUnits"`
	Rank       int    `json:"rank,omitempty"`
}
