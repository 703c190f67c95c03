package ledger

import (
	"context"
	"errors"

	"github.com/cozyclip/backend/internal/models"
)

// ErrAccountNotFound is returned by Account when the user has no ledger
// row yet. UpdateAccount never returns it: accounts are created lazily on
// first write.
var ErrAccountNotFound = errors.New("account not found")

// ErrConflict is returned when the store's transaction retries are
// exhausted. Callers treat it as a transient store failure, never as a
// business-rule rejection.
var ErrConflict = errors.New("transaction conflict, retries exhausted")

// Mutation inspects and updates an account inside a transaction. It runs
// against the state read in that transaction and must be safe to re-run:
// the store retries the whole read-mutate-write cycle on write conflict.
//
// A non-nil returned ShopTransaction is persisted atomically with the
// account write. Returning an error aborts the transaction; no account
// mutation is committed.
type Mutation func(a *models.Account) (*models.ShopTransaction, error)

// Store is the ledger persistence collaborator. One account document per
// user; operations on different users are fully independent, operations
// on the same user are serialized by the transaction retry mechanism.
type Store interface {
	// Account returns the user's account, or ErrAccountNotFound.
	Account(ctx context.Context, userID int64) (*models.Account, error)

	// UpdateAccount atomically applies mutate to the user's account,
	// creating a zero-valued account first if none exists. Returns the
	// committed post-state.
	UpdateAccount(ctx context.Context, userID int64, mutate Mutation) (*models.Account, error)

	// LogTransaction appends a redemption record outside any account
	// transaction. Used for best-effort failure records.
	LogTransaction(ctx context.Context, rec *models.ShopTransaction) error

	// Transactions returns one page of the user's redemption log, newest
	// first, plus the total record count.
	Transactions(ctx context.Context, userID int64, page, limit int) ([]models.ShopTransaction, int, error)

	// QuestDefinitions and ShopItems back the catalog's store-first read
	// path. An empty result is not an error.
	QuestDefinitions(ctx context.Context) ([]models.QuestDefinition, error)
	ShopItems(ctx context.Context) ([]models.ShopItem, error)
}
