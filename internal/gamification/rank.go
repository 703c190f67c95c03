package gamification

import (
	"fmt"

	"github.com/cozyclip/backend/internal/models"
)

// Rank ladder: 6 tiers of 5 sublevels each, 30 levels total. A level is
// 10 progress units; completed books count 1 unit each and every 5 quiz
// points count 1 unit.
const (
	pointsPerUnit    = 5
	unitsPerLevel    = 10
	sublevelsPerTier = 5
)

var tiers = []string{"Bronze", "Silver", "Gold", "Platinum", "Diamond", "Mythic"}

var tierBadges = map[string]string{
	"Bronze":   "🥉",
	"Silver":   "🥈",
	"Gold":     "🥇",
	"Platinum": "🏆",
	"Diamond":  "💎",
	"Mythic":   "👑",
}

// BadgeForTier maps a tier name to its badge symbol.
func BadgeForTier(tier string) string {
	if b, ok := tierBadges[tier]; ok {
		return b
	}
	return "⭐"
}

// ComputeRank derives the rank descriptor from cumulative counters. Pure
// function, no I/O. Rank is never persisted, always recomputed.
func ComputeRank(totalCompletedBooks, totalPoints int) models.RankInfo {
	if totalCompletedBooks < 0 {
		totalCompletedBooks = 0
	}
	if totalPoints < 0 {
		totalPoints = 0
	}

	totalProgress := totalCompletedBooks + totalPoints/pointsPerUnit
	level := totalProgress / unitsPerLevel
	maxLevel := len(tiers)*sublevelsPerTier - 1

	if level >= maxLevel {
		tier := tiers[len(tiers)-1]
		return models.RankInfo{
			CurrentRank:        rankName(tier, sublevelsPerTier),
			Tier:               tier,
			Sublevel:           sublevelsPerTier,
			Badge:              BadgeForTier(tier),
			ProgressInSublevel: totalProgress % unitsPerLevel,
			BooksToNext:        0,
		}
	}

	tier := tiers[level/sublevelsPerTier]
	sublevel := level%sublevelsPerTier + 1

	nextTier := tier
	nextSublevel := sublevel + 1
	if nextSublevel > sublevelsPerTier {
		nextTier = tiers[level/sublevelsPerTier+1]
		nextSublevel = 1
	}

	return models.RankInfo{
		CurrentRank:        rankName(tier, sublevel),
		Tier:               tier,
		Sublevel:           sublevel,
		Badge:              BadgeForTier(tier),
		ProgressInSublevel: totalProgress % unitsPerLevel,
		BooksToNext:        unitsPerLevel - totalProgress%unitsPerLevel,
		NextRank:           rankName(nextTier, nextSublevel),
	}
}

func rankName(tier string, sublevel int) string {
	return fmt.Sprintf("%s %d", tier, sublevel)
}
