package gamification

import (
	"testing"
	"time"

	"github.com/cozyclip/backend/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStreakEndingAt(t *testing.T) {
	tests := []struct {
		name   string
		active []string
		ref    string
		want   int
	}{
		{"empty", nil, "2026-03-10", 0},
		{"single day", []string{"2026-03-10"}, "2026-03-10", 1},
		{"ref day inactive", []string{"2026-03-09"}, "2026-03-10", 0},
		{"three consecutive", []string{"2026-03-08", "2026-03-09", "2026-03-10"}, "2026-03-10", 3},
		{"gap breaks streak", []string{"2026-03-07", "2026-03-09", "2026-03-10"}, "2026-03-10", 2},
		{"month boundary", []string{"2026-02-28", "2026-03-01"}, "2026-03-01", 2},
	}

	for _, tt := range tests {
		activeDays := make(map[string]bool)
		for _, d := range tt.active {
			activeDays[d] = true
		}
		if got := StreakEndingAt(activeDays, day(tt.ref)); got != tt.want {
			t.Errorf("%s: StreakEndingAt = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMarkSessionIdempotentSameDay(t *testing.T) {
	a := &models.Account{}
	at := day("2026-03-10")

	markSession(a, at)
	markSession(a, at)
	markSession(a, at)

	if a.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", a.CurrentStreak)
	}
	if a.LongestStreak != 1 {
		t.Errorf("LongestStreak = %d, want 1", a.LongestStreak)
	}
	if len(a.ActiveDays) != 1 {
		t.Errorf("len(ActiveDays) = %d, want 1", len(a.ActiveDays))
	}
}

func TestMarkSessionMilestoneBadges(t *testing.T) {
	a := &models.Account{}
	start := day("2026-03-01")

	for i := 0; i < 7; i++ {
		markSession(a, start.AddDate(0, 0, i))
	}

	if a.CurrentStreak != 7 {
		t.Fatalf("CurrentStreak = %d, want 7", a.CurrentStreak)
	}
	if !a.HasBadge("streak_3") || !a.HasBadge("streak_7") {
		t.Errorf("badges = %v, want streak_3 and streak_7", a.Badges)
	}
	if a.HasBadge("streak_30") {
		t.Errorf("streak_30 awarded too early: %v", a.Badges)
	}
}

func TestMarkSessionBadgeAwardedOnce(t *testing.T) {
	a := &models.Account{}
	start := day("2026-03-01")

	// Build a 3-day streak, break it, build another.
	for i := 0; i < 3; i++ {
		markSession(a, start.AddDate(0, 0, i))
	}
	for i := 5; i < 8; i++ {
		markSession(a, start.AddDate(0, 0, i))
	}

	count := 0
	for _, b := range a.Badges {
		if b == "streak_3" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("streak_3 awarded %d times, want 1", count)
	}
}

func TestMarkSessionLongestStreakKept(t *testing.T) {
	a := &models.Account{}
	start := day("2026-03-01")

	for i := 0; i < 5; i++ {
		markSession(a, start.AddDate(0, 0, i))
	}
	// Gap, then a shorter run.
	markSession(a, start.AddDate(0, 0, 10))

	if a.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", a.CurrentStreak)
	}
	if a.LongestStreak != 5 {
		t.Errorf("LongestStreak = %d, want 5", a.LongestStreak)
	}
}
