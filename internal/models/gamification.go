package models

import "time"

// ── Request Types ─────────────────────────────────────────

type QuestEventRequest struct {
	EventType string `json:"event_type"`
	StoryID   string `json:"story_id,omitempty"`
	Chapter   string `json:"chapter,omitempty"`
}

type RedeemRequest struct {
	ItemID string `json:"item_id"`
}

type CompleteBookRequest struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
}

type RecordSessionRequest struct {
	Date string `json:"date,omitempty"` // "2006-01-02", defaults to today UTC
}

type SubmitQuizRequest struct {
	BookID  string `json:"book_id"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

type ChapterEventRequest struct {
	BookID    string `json:"book_id"`
	Chapter   string `json:"chapter"`
	Completed bool   `json:"completed"`
}

// ── Response Types ────────────────────────────────────────

type QuestEventResponse struct {
	CoinsEarned int `json:"coins_earned"`
}

type QuestOverviewEntry struct {
	QuestID     string     `json:"quest_id"`
	Title       string     `json:"title"`
	Trigger     string     `json:"trigger"`
	Target      int        `json:"target"`
	RewardCoins int        `json:"reward_coins"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type RedeemResponse struct {
	Success        bool   `json:"success"`
	ItemID         string `json:"item_id"`
	ItemName       string `json:"item_name"`
	CoinsRemaining int    `json:"coins_remaining"`
	Message        string `json:"message"`
}

type ItemListResponse struct {
	Items []ShopItem `json:"items"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Total int        `json:"total"`
}

type TransactionListResponse struct {
	Transactions []ShopTransaction `json:"transactions"`
	Page         int               `json:"page"`
	Limit        int               `json:"limit"`
	Total        int               `json:"total"`
}

// RankInfo describes a user's position on the 6-tier, 5-sublevel ladder.
type RankInfo struct {
	CurrentRank        string `json:"current_rank"`
	Tier               string `json:"tier"`
	Sublevel           int    `json:"sublevel"`
	Badge              string `json:"badge"`
	ProgressInSublevel int    `json:"progress_in_sublevel"`
	BooksToNext        int    `json:"books_to_next"`
	NextRank           string `json:"next_rank,omitempty"`
}

type StreakResponse struct {
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	Badges        []string `json:"badges"`
}

type QuizResultResponse struct {
	PointsEarned int `json:"points_earned"`
	TotalPoints  int `json:"total_points"`
	CoinsEarned  int `json:"coins_earned"`
}
