package gamification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyclip/backend/internal/models"
)

func TestRankForNewUser(t *testing.T) {
	svc, _ := newTestService(t)

	rank, err := svc.Rank(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Bronze 1", rank.CurrentRank)
	assert.Equal(t, "🥉", rank.Badge)
	assert.Equal(t, 10, rank.BooksToNext)
}

func TestStreakForNewUser(t *testing.T) {
	svc, _ := newTestService(t)

	streak, err := svc.Streak(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, streak.CurrentStreak)
	assert.Zero(t, streak.LongestStreak)
	assert.NotNil(t, streak.Badges)
	assert.Empty(t, streak.Badges)
}

func TestRecordReadingSessionIdempotentPerDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.RecordReadingSession(ctx, 1, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentStreak)

	second, err := svc.RecordReadingSession(ctx, 1, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, first.CurrentStreak, second.CurrentStreak)
	assert.Equal(t, first.LongestStreak, second.LongestStreak)
}

func TestRecordReadingSessionBuildsStreak(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Two days ago, yesterday, today.
	now := time.Now().UTC()
	for i := 2; i >= 0; i-- {
		_, err := svc.RecordReadingSession(ctx, 1, now.AddDate(0, 0, -i))
		require.NoError(t, err)
	}

	streak, err := svc.Streak(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
	assert.Contains(t, streak.Badges, "streak_3")
}

func TestStreakReadRecomputesBrokenStreak(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Sessions ending three days ago. The cached CurrentStreak is 2, but
	// a read today must report the streak as broken.
	now := time.Now().UTC()
	_, err := svc.RecordReadingSession(ctx, 1, now.AddDate(0, 0, -4))
	require.NoError(t, err)
	_, err = svc.RecordReadingSession(ctx, 1, now.AddDate(0, 0, -3))
	require.NoError(t, err)

	streak, err := svc.Streak(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}

func TestQuestOverviewJoinsProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateQuestProgress(ctx, 1, models.EventStoryCompleted, EventMeta{StoryID: "book-1"})
	require.NoError(t, err)

	entries, err := svc.QuestOverview(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byID := make(map[string]models.QuestOverviewEntry)
	for _, e := range entries {
		byID[e.QuestID] = e
	}

	assert.True(t, byID["first_story"].Completed)
	assert.NotNil(t, byID["first_story"].CompletedAt)
	assert.Equal(t, 1, byID["bookworm"].Progress)
	assert.False(t, byID["bookworm"].Completed)
	assert.Zero(t, byID["page_turner"].Progress, "untouched quest reports zero progress")
}

func TestQuestOverviewForNewUser(t *testing.T) {
	svc, _ := newTestService(t)

	entries, err := svc.QuestOverview(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Zero(t, e.Progress)
		assert.False(t, e.Completed)
	}
}
