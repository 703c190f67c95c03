package catalog

import "github.com/cozyclip/backend/internal/models"

// DefaultQuests is the compiled-in quest catalog, used when the store
// has no quest_definitions rows.
func DefaultQuests() []models.QuestDefinition {
	return []models.QuestDefinition{
		{QuestID: "first_story", Title: "First Steps", Trigger: models.EventStoryCompleted, Target: 1, RewardCoins: 50},
		{QuestID: "bookworm", Title: "Bookworm", Trigger: models.EventStoryCompleted, Target: 5, RewardCoins: 150, UniqueStories: true},
		{QuestID: "story_collector", Title: "Story Collector", Trigger: models.EventStoryCompleted, Target: 20, RewardCoins: 500, UniqueStories: true},
		{QuestID: "page_turner", Title: "Page Turner", Trigger: models.EventChapterRead, Target: 10, RewardCoins: 40},
		{QuestID: "chapter_marathon", Title: "Chapter Marathon", Trigger: models.EventChapterCompleted, Target: 25, RewardCoins: 120},
		{QuestID: "quiz_rookie", Title: "Quiz Rookie", Trigger: models.EventQuizCompleted, Target: 1, RewardCoins: 25},
		{QuestID: "quiz_whiz", Title: "Quiz Whiz", Trigger: models.EventQuizCompleted, Target: 10, RewardCoins: 200},
		{QuestID: "word_explorer", Title: "Word Explorer", Trigger: models.EventWordAssist, Target: 20, RewardCoins: 60},
		{QuestID: "daily_reader", Title: "Daily Reader", Trigger: models.EventDailyReading, Target: 7, RewardCoins: 100, TimeWindow: "weekly"},
	}
}

// DefaultItems is the compiled-in shop catalog, used when the store has
// no shop_items rows.
func DefaultItems() []models.ShopItem {
	return []models.ShopItem{
		{ID: "powerup_hint", Name: "Quiz Hint", Cost: 50, Type: models.ItemTypePowerUp, Rarity: "common"},
		{ID: "powerup_retry", Name: "Quiz Retry", Cost: 75, Type: models.ItemTypeConsumable, Rarity: "common"},
		{ID: "avatar_fox", Name: "Fox Avatar", Cost: 100, Type: "avatar", Rarity: "common"},
		{ID: "avatar_owl", Name: "Owl Avatar", Cost: 150, Type: "avatar", Rarity: "uncommon"},
		{ID: "powerup_streak_shield", Name: "Streak Shield", Cost: 120, Type: models.ItemTypePowerUp, Rarity: "uncommon"},
		{ID: "theme_sepia", Name: "Sepia Theme", Cost: 200, Type: "theme", Rarity: "rare"},
		{ID: "theme_midnight", Name: "Midnight Theme", Cost: 250, Type: "theme", Rarity: "rare"},
		{ID: "frame_gilded", Name: "Gilded Frame", Cost: 500, Type: "frame", Rarity: "epic"},
		{ID: "frame_celestial", Name: "Celestial Frame", Cost: 1000, Type: "frame", Rarity: "legendary"},
	}
}
