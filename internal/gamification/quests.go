package gamification

import (
	"context"
	"time"

	"github.com/cozyclip/backend/internal/middleware"
	"github.com/cozyclip/backend/internal/models"
)

// EventMeta carries optional event context. StoryID feeds the
// uniqueStories dedup; Chapter is tracked on the progress entry.
type EventMeta struct {
	StoryID string
	Chapter string
}

// UpdateQuestProgress advances every catalog quest listening for
// eventType by one step and returns the coins earned by quests completed
// in this call. An event type no quest listens for is a no-op, not an
// error. Progress, completion flags and coin credits land in a single
// account transaction; the reward for a quest is paid exactly once, on
// the false→true completion transition.
func (s *Service) UpdateQuestProgress(ctx context.Context, userID int64, eventType string, meta EventMeta) (int, error) {
	if userID <= 0 {
		return 0, errUnauthorized()
	}
	if eventType == "" {
		return 0, errValidation("event_type")
	}

	defs := s.catalog.QuestsForTrigger(eventType)
	if len(defs) == 0 {
		return 0, nil
	}

	coinsEarned := 0
	completed := 0
	_, err := s.update(ctx, userID, func(a *models.Account) (*models.ShopTransaction, error) {
		// The closure may re-run on transaction conflict; recompute from
		// the freshly read account each attempt.
		coinsEarned = 0
		completed = 0
		now := time.Now().UTC()

		for _, def := range defs {
			entry := a.Quest(def.QuestID)
			if entry == nil {
				a.Quests = append(a.Quests, models.QuestProgress{QuestID: def.QuestID})
				entry = &a.Quests[len(a.Quests)-1]
			}
			if entry.Completed {
				continue
			}

			if def.UniqueStories && meta.StoryID != "" {
				if containsString(entry.StoryIDs, meta.StoryID) {
					continue
				}
				entry.StoryIDs = append(entry.StoryIDs, meta.StoryID)
			}
			if meta.Chapter != "" && !containsString(entry.Chapters, meta.Chapter) {
				entry.Chapters = append(entry.Chapters, meta.Chapter)
			}

			entry.Progress++
			if entry.Progress > def.Target {
				entry.Progress = def.Target
			}
			entry.UpdatedAt = now

			if entry.Progress >= def.Target {
				entry.Completed = true
				completedAt := now
				entry.CompletedAt = &completedAt
				coinsEarned += def.RewardCoins
				completed++
			}
		}

		a.Coins += coinsEarned
		a.TotalCoinsEarned += coinsEarned
		return nil, nil
	})
	if err != nil {
		return 0, err
	}
	for i := 0; i < completed; i++ {
		middleware.ObserveQuestCompletion()
	}
	return coinsEarned, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
