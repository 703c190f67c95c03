package gamification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cozyclip/backend/internal/middleware"
	"github.com/cozyclip/backend/internal/models"
)

// RedeemItem exchanges coins for a shop item. The ownership check,
// balance check, deduction, grant and the "completed" transaction record
// all happen inside one account transaction, so two concurrent
// redemptions cannot both pass the balance check: the later one re-reads
// and re-validates against the committed state.
//
// Consumable and power-up items skip the ownership check and may be
// redeemed repeatedly, each redemption appending to the inventory.
func (s *Service) RedeemItem(ctx context.Context, userID int64, itemID string) (models.RedeemResponse, error) {
	if userID <= 0 {
		return models.RedeemResponse{}, errUnauthorized()
	}
	if itemID == "" {
		return models.RedeemResponse{}, errValidation("item_id")
	}

	item, ok := s.catalog.Item(itemID)
	if !ok {
		err := errNotFound("shop item", itemID)
		s.logFailedRedemption(ctx, userID, models.ShopItem{ID: itemID}, err)
		return models.RedeemResponse{}, err
	}

	a, err := s.update(ctx, userID, func(a *models.Account) (*models.ShopTransaction, error) {
		if !item.Repeatable() && a.OwnsItem(item.ID) {
			return nil, errAlreadyOwned(item.ID)
		}
		if a.Coins < item.Cost {
			return nil, errInsufficientCoins(item.Cost, a.Coins)
		}

		a.Coins -= item.Cost
		a.UnlockedItems = append(a.UnlockedItems, item.ID)
		return newTransaction(userID, item, models.TransactionCompleted, ""), nil
	})
	if err != nil {
		s.logFailedRedemption(ctx, userID, item, err)
		return models.RedeemResponse{}, err
	}

	middleware.ObserveRedemption(models.TransactionCompleted)
	return models.RedeemResponse{
		Success:        true,
		ItemID:         item.ID,
		ItemName:       item.Name,
		CoinsRemaining: a.Coins,
		Message:        fmt.Sprintf("Redeemed %s for %d coins", item.Name, item.Cost),
	}, nil
}

// ListItems returns one catalog page.
func (s *Service) ListItems(page, limit int) models.ItemListResponse {
	items, total := s.catalog.Items(page, limit)
	return models.ItemListResponse{Items: items, Page: page, Limit: limit, Total: total}
}

// Transactions returns one page of the user's redemption history.
func (s *Service) Transactions(ctx context.Context, userID int64, page, limit int) (models.TransactionListResponse, error) {
	if userID <= 0 {
		return models.TransactionListResponse{}, errUnauthorized()
	}
	recs, total, err := s.store.Transactions(ctx, userID, page, limit)
	if err != nil {
		return models.TransactionListResponse{}, errStore("transaction read", err)
	}
	return models.TransactionListResponse{Transactions: recs, Page: page, Limit: limit, Total: total}, nil
}

// logFailedRedemption records a "failed" log entry for a rejected
// attempt. Best effort: store failures here are logged and swallowed,
// and non-business errors are not recorded at all.
func (s *Service) logFailedRedemption(ctx context.Context, userID int64, item models.ShopItem, cause error) {
	var le *LedgerError
	if !errors.As(cause, &le) {
		return
	}
	switch le.Code {
	case CodeNotFound, CodeAlreadyOwned, CodeInsufficientCoins:
	default:
		return
	}
	middleware.ObserveRedemption(models.TransactionFailed)

	rec := newTransaction(userID, item, models.TransactionFailed, le.Message)
	if err := s.store.LogTransaction(ctx, rec); err != nil {
		log.Printf("[shop] failed to record rejected redemption for user %d: %v", userID, err)
	}
}

func newTransaction(userID int64, item models.ShopItem, status, reason string) *models.ShopTransaction {
	return &models.ShopTransaction{
		ID:         uuid.New().String(),
		UserID:     userID,
		ItemID:     item.ID,
		ItemName:   item.Name,
		Cost:       item.Cost,
		ItemType:   item.Type,
		Rarity:     item.Rarity,
		Status:     status,
		Reason:     reason,
		RedeemedAt: time.Now().UTC(),
	}
}
