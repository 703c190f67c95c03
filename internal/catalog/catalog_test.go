package catalog

import (
	"context"
	"testing"

	"github.com/cozyclip/backend/internal/ledger"
	"github.com/cozyclip/backend/internal/models"
)

func TestLoadFallsBackToDefaults(t *testing.T) {
	c, err := Load(context.Background(), ledger.NewMemoryStore())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(c.Quests()) == 0 {
		t.Error("expected default quests, got none")
	}
	if _, total := c.Items(1, 100); total == 0 {
		t.Error("expected default shop items, got none")
	}
	if _, ok := c.Quest("first_story"); !ok {
		t.Error("default quest first_story missing")
	}
	if _, ok := c.Item("powerup_hint"); !ok {
		t.Error("default item powerup_hint missing")
	}
}

func TestLoadPrefersStoreRows(t *testing.T) {
	store := ledger.NewMemoryStore()
	store.SeedCatalog(
		[]models.QuestDefinition{
			{QuestID: "custom", Title: "Custom", Trigger: "story_completed", Target: 2, RewardCoins: 10},
		},
		[]models.ShopItem{
			{ID: "custom_item", Name: "Custom Item", Cost: 5},
		},
	)

	c, err := Load(context.Background(), store)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(c.Quests()) != 1 {
		t.Errorf("len(Quests()) = %d, want 1", len(c.Quests()))
	}
	if _, ok := c.Quest("first_story"); ok {
		t.Error("defaults must not be mixed in when the store has rows")
	}
	if _, ok := c.Item("custom_item"); !ok {
		t.Error("store item missing")
	}
}

func TestQuestsForTrigger(t *testing.T) {
	c, err := New(
		[]models.QuestDefinition{
			{QuestID: "a", Trigger: "story_completed", Target: 1},
			{QuestID: "b", Trigger: "story_completed", Target: 5},
			{QuestID: "c", Trigger: "quiz_completed", Target: 1},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := len(c.QuestsForTrigger("story_completed")); got != 2 {
		t.Errorf("QuestsForTrigger(story_completed) = %d quests, want 2", got)
	}
	if got := len(c.QuestsForTrigger("quiz_completed")); got != 1 {
		t.Errorf("QuestsForTrigger(quiz_completed) = %d quests, want 1", got)
	}
	if got := len(c.QuestsForTrigger("unknown")); got != 0 {
		t.Errorf("QuestsForTrigger(unknown) = %d quests, want 0", got)
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name   string
		quests []models.QuestDefinition
		items  []models.ShopItem
	}{
		{
			"missing quest id",
			[]models.QuestDefinition{{Trigger: "story_completed", Target: 1}},
			nil,
		},
		{
			"missing trigger",
			[]models.QuestDefinition{{QuestID: "x", Target: 1}},
			nil,
		},
		{
			"zero target",
			[]models.QuestDefinition{{QuestID: "x", Trigger: "story_completed"}},
			nil,
		},
		{
			"duplicate quest id",
			[]models.QuestDefinition{
				{QuestID: "x", Trigger: "story_completed", Target: 1},
				{QuestID: "x", Trigger: "quiz_completed", Target: 2},
			},
			nil,
		},
		{
			"missing item id",
			nil,
			[]models.ShopItem{{Name: "Nameless", Cost: 10}},
		},
		{
			"negative cost",
			nil,
			[]models.ShopItem{{ID: "x", Cost: -1}},
		},
		{
			"duplicate item id",
			nil,
			[]models.ShopItem{{ID: "x", Cost: 1}, {ID: "x", Cost: 2}},
		},
	}

	for _, tt := range tests {
		if _, err := New(tt.quests, tt.items); err == nil {
			t.Errorf("%s: New() succeeded, want error", tt.name)
		}
	}
}

func TestDefaultsAreValid(t *testing.T) {
	if _, err := New(DefaultQuests(), DefaultItems()); err != nil {
		t.Fatalf("compiled-in defaults failed validation: %v", err)
	}
}
