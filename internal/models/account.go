package models

import "time"

// Account is the per-user gamification ledger document. It is the only
// shared mutable state in the system; every write goes through
// ledger.Store.UpdateAccount so the invariants below survive concurrent
// requests.
//
// Invariants:
//   - Coins never goes negative.
//   - TotalCoinsEarned is monotonic.
//   - CompletedBooks has at most one entry per BookID, and
//     CompletedBooksCount == len(CompletedBooks).
//   - A non-consumable item appears in UnlockedItems at most once.
type Account struct {
	UserID              int64           `json:"user_id"`
	Coins               int             `json:"coins"`
	TotalCoinsEarned    int             `json:"total_coins_earned"`
	Points              int             `json:"points"`
	UnlockedItems       []string        `json:"unlocked_items"`
	CompletedBooks      []CompletedBook `json:"completed_books"`
	CompletedBooksCount int             `json:"completed_books_count"`
	Quests              []QuestProgress `json:"quests"`
	ActiveDays          map[string]bool `json:"active_days"`
	CurrentStreak       int             `json:"current_streak"`
	LongestStreak       int             `json:"longest_streak"`
	Badges              []string        `json:"badges"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type CompletedBook struct {
	BookID     string    `json:"book_id"`
	Title      string    `json:"title"`
	FinishedAt time.Time `json:"finished_at"`
}

// QuestProgress is one user's state for one quest. Quests the user has
// never touched have no entry (implicitly progress=0, completed=false).
type QuestProgress struct {
	QuestID     string     `json:"quest_id"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	StoryIDs    []string   `json:"story_ids,omitempty"`
	Chapters    []string   `json:"chapters,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Quest returns the progress entry for questID, or nil if absent.
func (a *Account) Quest(questID string) *QuestProgress {
	for i := range a.Quests {
		if a.Quests[i].QuestID == questID {
			return &a.Quests[i]
		}
	}
	return nil
}

// HasBook reports whether bookID is already recorded as completed.
func (a *Account) HasBook(bookID string) bool {
	for _, b := range a.CompletedBooks {
		if b.BookID == bookID {
			return true
		}
	}
	return false
}

// OwnsItem reports whether itemID is in the unlocked inventory.
func (a *Account) OwnsItem(itemID string) bool {
	for _, id := range a.UnlockedItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// HasBadge reports whether the badge has already been earned.
func (a *Account) HasBadge(badge string) bool {
	for _, b := range a.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// ShopTransaction is one append-only redemption log entry. Records are
// never mutated after creation.
type ShopTransaction struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	ItemID     string    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Cost       int       `json:"cost"`
	ItemType   string    `json:"item_type"`
	Rarity     string    `json:"rarity"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

const (
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
)
