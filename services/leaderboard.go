package services

import (
	"sort"

	"greenguard-be/models"
)

// Rank orders participants by descending greenUnits and assigns 1-based
// positional ranks. The sort is stable: entries with equal scores keep
// their input order, and ties never share a rank number.
func Rank(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	ranked := make([]models.LeaderboardEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GreenUnits > ranked[j].GreenUnits
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
