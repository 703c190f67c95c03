package gamification

import (
	"context"
	"errors"
	"time"

	"github.com/cozyclip/backend/internal/catalog"
	"github.com/cozyclip/backend/internal/ledger"
	"github.com/cozyclip/backend/internal/models"
)

// Service is the gamification ledger core: quest progress, shop
// redemption, book completion, rank and streak computation. All account
// writes go through the store's transactional primitive; every mutation
// closure is a pure read-modify-write safe to re-run on conflict.
type Service struct {
	store   ledger.Store
	catalog *catalog.Catalog
}

func NewService(store ledger.Store, cat *catalog.Catalog) *Service {
	return &Service{store: store, catalog: cat}
}

// ── Read side ───────────────────────────────────────────

// Rank computes the user's rank descriptor from account counters. Never
// persisted; a user without an account ranks at the bottom of the ladder.
func (s *Service) Rank(ctx context.Context, userID int64) (models.RankInfo, error) {
	if userID <= 0 {
		return models.RankInfo{}, errUnauthorized()
	}
	a, err := s.account(ctx, userID)
	if err != nil {
		return models.RankInfo{}, err
	}
	return ComputeRank(a.CompletedBooksCount, a.Points), nil
}

// Streak returns the streak descriptor with CurrentStreak recomputed as
// of now, so a streak broken since the last write reads as broken.
func (s *Service) Streak(ctx context.Context, userID int64) (models.StreakResponse, error) {
	if userID <= 0 {
		return models.StreakResponse{}, errUnauthorized()
	}
	a, err := s.account(ctx, userID)
	if err != nil {
		return models.StreakResponse{}, err
	}
	return models.StreakResponse{
		CurrentStreak: StreakEndingAt(a.ActiveDays, time.Now()),
		LongestStreak: a.LongestStreak,
		Badges:        badgeList(a.Badges),
	}, nil
}

// QuestOverview joins the quest catalog with the user's progress.
// Quests without a progress entry report progress 0.
func (s *Service) QuestOverview(ctx context.Context, userID int64) ([]models.QuestOverviewEntry, error) {
	if userID <= 0 {
		return nil, errUnauthorized()
	}
	a, err := s.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := []models.QuestOverviewEntry{}
	for _, def := range s.catalog.Quests() {
		e := models.QuestOverviewEntry{
			QuestID:     def.QuestID,
			Title:       def.Title,
			Trigger:     def.Trigger,
			Target:      def.Target,
			RewardCoins: def.RewardCoins,
		}
		if p := a.Quest(def.QuestID); p != nil {
			e.Progress = p.Progress
			e.Completed = p.Completed
			e.CompletedAt = p.CompletedAt
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ── Streak write side ───────────────────────────────────

// RecordReadingSession marks the UTC day for at (zero value: now) active
// and recomputes the cached streak fields in the same transaction.
// Idempotent per calendar day.
func (s *Service) RecordReadingSession(ctx context.Context, userID int64, at time.Time) (models.StreakResponse, error) {
	if userID <= 0 {
		return models.StreakResponse{}, errUnauthorized()
	}
	if at.IsZero() {
		at = time.Now()
	}

	a, err := s.update(ctx, userID, func(a *models.Account) (*models.ShopTransaction, error) {
		markSession(a, at)
		return nil, nil
	})
	if err != nil {
		return models.StreakResponse{}, err
	}
	return models.StreakResponse{
		CurrentStreak: a.CurrentStreak,
		LongestStreak: a.LongestStreak,
		Badges:        badgeList(a.Badges),
	}, nil
}

// ── Store access helpers ────────────────────────────────

// account reads the user's account, substituting a zero-valued one when
// none exists yet (accounts are created lazily on first write).
func (s *Service) account(ctx context.Context, userID int64) (*models.Account, error) {
	a, err := s.store.Account(ctx, userID)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return &models.Account{UserID: userID}, nil
	}
	if err != nil {
		return nil, errStore("account read", err)
	}
	return a, nil
}

// update funnels every account mutation through the store transaction,
// translating store-level failures into the error taxonomy while letting
// business rejections raised inside mutate pass through typed.
func (s *Service) update(ctx context.Context, userID int64, mutate ledger.Mutation) (*models.Account, error) {
	a, err := s.store.UpdateAccount(ctx, userID, mutate)
	if err != nil {
		var le *LedgerError
		if errors.As(err, &le) {
			return nil, le
		}
		if errors.Is(err, ledger.ErrConflict) {
			return nil, errConflict(err)
		}
		return nil, errStore("account update", err)
	}
	return a, nil
}

func badgeList(b []string) []string {
	if b == nil {
		return []string{}
	}
	return b
}
