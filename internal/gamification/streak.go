package gamification

import (
	"time"

	"github.com/cozyclip/backend/internal/models"
)

// dayKey is the UTC day-granularity key format for the active-days map.
const dayKey = "2006-01-02"

// streakBadges maps streak milestone lengths to the badge earned on
// reaching them. Awarded exactly once per user (idempotent set union).
var streakBadges = map[int]string{
	3:  "streak_3",
	7:  "streak_7",
	30: "streak_30",
}

// DayKey returns the UTC calendar-day key for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKey)
}

// StreakEndingAt counts consecutive active days walking backward from
// the reference day. Returns 0 when the reference day itself is not
// active, so a session for "today" must be recorded before this read for
// today to count.
func StreakEndingAt(activeDays map[string]bool, ref time.Time) int {
	day := ref.UTC().Truncate(24 * time.Hour)
	streak := 0
	for activeDays[day.Format(dayKey)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// markSession applies one reading session to the account: marks the UTC
// day active, recomputes the current streak as of that day, raises the
// longest streak, and awards any newly reached milestone badge.
// Re-marking an already-active day leaves the computed streak unchanged.
func markSession(a *models.Account, at time.Time) {
	if a.ActiveDays == nil {
		a.ActiveDays = make(map[string]bool)
	}
	a.ActiveDays[DayKey(at)] = true

	a.CurrentStreak = StreakEndingAt(a.ActiveDays, at)
	if a.CurrentStreak > a.LongestStreak {
		a.LongestStreak = a.CurrentStreak
	}

	if badge, ok := streakBadges[a.CurrentStreak]; ok && !a.HasBadge(badge) {
		a.Badges = append(a.Badges, badge)
	}
}
