package gamification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyclip/backend/internal/catalog"
	"github.com/cozyclip/backend/internal/ledger"
	"github.com/cozyclip/backend/internal/models"
)

func newTestService(t *testing.T) (*Service, *ledger.MemoryStore) {
	t.Helper()

	quests := []models.QuestDefinition{
		{QuestID: "first_story", Title: "First Story", Trigger: models.EventStoryCompleted, Target: 1, RewardCoins: 50},
		{QuestID: "bookworm", Title: "Bookworm", Trigger: models.EventStoryCompleted, Target: 3, RewardCoins: 150, UniqueStories: true},
		{QuestID: "page_turner", Title: "Page Turner", Trigger: models.EventChapterRead, Target: 2, RewardCoins: 40},
	}
	items := []models.ShopItem{
		{ID: "powerup_hint", Name: "Hint Token", Cost: 50, Type: models.ItemTypePowerUp, Rarity: "common"},
		{ID: "avatar_fox", Name: "Fox Avatar", Cost: 100, Type: "avatar", Rarity: "common"},
		{ID: "frame_gilded", Name: "Gilded Frame", Cost: 500, Type: "frame", Rarity: "epic"},
	}

	cat, err := catalog.New(quests, items)
	require.NoError(t, err)

	store := ledger.NewMemoryStore()
	return NewService(store, cat), store
}

func TestUpdateQuestProgressCompletesAndPaysOnce(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	coins, err := svc.UpdateQuestProgress(ctx, 1, models.EventStoryCompleted, EventMeta{StoryID: "book-1"})
	require.NoError(t, err)
	assert.Equal(t, 50, coins, "first_story pays on first story")

	a, err := store.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, a.Coins)
	assert.Equal(t, 50, a.TotalCoinsEarned)

	first := a.Quest("first_story")
	require.NotNil(t, first)
	assert.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)

	// Completed quests never pay again.
	coins, err = svc.UpdateQuestProgress(ctx, 1, models.EventStoryCompleted, EventMeta{StoryID: "book-2"})
	require.NoError(t, err)
	assert.Zero(t, coins)

	a, err = store.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, a.Coins)
	assert.Equal(t, 1, a.Quest("first_story").Progress, "progress capped at target")
}

func TestUpdateQuestProgressUniqueStoriesDedup(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// The same story over and over advances bookworm only once.
	for i := 0; i < 5; i++ {
		_, err := svc.UpdateQuestProgress(ctx, 1, models.EventStoryCompleted, EventMeta{StoryID: "book-1"})
		require.NoError(t, err)
	}

	a, err := store.Account(ctx, 1)
	require.NoError(t, err)
	bookworm := a.Quest("bookworm")
	require.NotNil(t, bookworm)
	assert.Equal(t, 1, bookworm.Progress)
	assert.False(t, bookworm.Completed)

	// Two more distinct stories complete it.
	_, err = svc.UpdateQuestProgress(ctx, 1, models.EventStoryCompleted, EventMeta{StoryID: "book-2"})
	require.NoError(t, err)
	coins, err := svc.UpdateQuestProgress(ctx, 1, models.EventStoryCompleted, EventMeta{StoryID: "book-3"})
	require.NoError(t, err)
	assert.Equal(t, 150, coins)

	a, err = store.Account(ctx, 1)
	require.NoError(t, err)
	assert.True(t, a.Quest("bookworm").Completed)
}

func TestUpdateQuestProgressUnknownEventIsNoop(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	coins, err := svc.UpdateQuestProgress(ctx, 1, "level_up", EventMeta{})
	require.NoError(t, err)
	assert.Zero(t, coins)

	_, err = store.Account(ctx, 1)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound, "no-op event must not create an account")
}

func TestUpdateQuestProgressMultipleQuestsOneEvent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// story_completed drives both first_story (target 1) and bookworm
	// (target 3); only first_story completes here.
	coins, err := svc.UpdateQuestProgress(ctx, 1, models.EventStoryCompleted, EventMeta{StoryID: "book-1"})
	require.NoError(t, err)
	assert.Equal(t, 50, coins)
}

func TestUpdateQuestProgressValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateQuestProgress(ctx, 0, models.EventStoryCompleted, EventMeta{})
	assertCode(t, err, CodeUnauthorized)

	_, err = svc.UpdateQuestProgress(ctx, 1, "", EventMeta{})
	assertCode(t, err, CodeValidation)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var le *LedgerError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, code, le.Code)
}
