package models

// QuestDefinition is a read-only catalog entry describing a quest. The
// engine matches events against Trigger and credits RewardCoins when
// Progress reaches Target.
type QuestDefinition struct {
	QuestID        string   `json:"quest_id"`
	Title          string   `json:"title"`
	Trigger        string   `json:"trigger"`
	Target         int      `json:"target"`
	RewardCoins    int      `json:"reward_coins"`
	TimeWindow     string   `json:"time_window,omitempty"`
	UniqueStories  bool     `json:"unique_stories"`
	GenresRequired []string `json:"genres_required,omitempty"`
}

// ShopItem is a read-only catalog entry. Consumable and power-up items
// may be redeemed repeatedly; everything else is a one-per-user unlock.
type ShopItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Cost   int    `json:"cost"`
	Type   string `json:"type"`
	Rarity string `json:"rarity"`
}

const (
	ItemTypeConsumable = "consumable"
	ItemTypePowerUp    = "power-up"
)

// Repeatable reports whether the item skips the already-owned check.
func (i ShopItem) Repeatable() bool {
	return i.Type == ItemTypeConsumable || i.Type == ItemTypePowerUp
}

// Event trigger vocabulary. The engine does not validate incoming event
// types beyond matching them against catalog triggers.
const (
	EventStoryCompleted   = "story_completed"
	EventChapterRead      = "chapter_read"
	EventChapterCompleted = "chapter_completed"
	EventQuizCompleted    = "quiz_completed"
	EventWordAssist       = "word_assist"
	EventDailyReading     = "daily_reading"
)
