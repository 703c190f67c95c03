package gamification

import (
	"context"
	"time"

	"github.com/cozyclip/backend/internal/models"
)

// AddCompletedBook records a finished book exactly once. Safe to call
// repeatedly for the same book (retried requests): a duplicate bookID is
// a silent no-op. The list append and the redundant fast counter move in
// the same transaction so they never drift apart.
func (s *Service) AddCompletedBook(ctx context.Context, userID int64, bookID, title string) error {
	if userID <= 0 {
		return errUnauthorized()
	}
	if bookID == "" {
		return errValidation("book_id")
	}

	_, err := s.update(ctx, userID, func(a *models.Account) (*models.ShopTransaction, error) {
		if a.HasBook(bookID) {
			return nil, nil
		}
		a.CompletedBooks = append(a.CompletedBooks, models.CompletedBook{
			BookID:     bookID,
			Title:      title,
			FinishedAt: time.Now().UTC(),
		})
		a.CompletedBooksCount++
		return nil, nil
	})
	return err
}

// AddPoints credits quiz score points toward rank progression.
func (s *Service) AddPoints(ctx context.Context, userID int64, points int) (*models.Account, error) {
	if userID <= 0 {
		return nil, errUnauthorized()
	}
	if points < 0 {
		points = 0
	}
	return s.update(ctx, userID, func(a *models.Account) (*models.ShopTransaction, error) {
		a.Points += points
		return nil, nil
	})
}
