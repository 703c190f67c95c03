package ledger

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/cozyclip/backend/internal/models"
)

// MemoryStore is an in-memory Store for tests and offline mode. It is
// injected like any other Store, never reached through process-wide
// state. A single mutex serializes mutations, which trivially satisfies
// the transactional contract.
type MemoryStore struct {
	mu           sync.Mutex
	accounts     map[int64]*models.Account
	transactions []models.ShopTransaction
	questDefs    []models.QuestDefinition
	shopItems    []models.ShopItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[int64]*models.Account)}
}

func (s *MemoryStore) Account(ctx context.Context, userID int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[userID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return copyAccount(a), nil
}

func (s *MemoryStore) UpdateAccount(ctx context.Context, userID int64, mutate Mutation) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[userID]
	if !ok {
		now := time.Now().UTC()
		current = &models.Account{UserID: userID, CreatedAt: now, UpdatedAt: now}
	}

	// Mutate a copy so a failed mutation leaves no trace.
	a := copyAccount(current)
	rec, err := mutate(a)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now().UTC()

	s.accounts[userID] = copyAccount(a)
	if rec != nil {
		s.transactions = append(s.transactions, *rec)
	}
	return a, nil
}

func (s *MemoryStore) LogTransaction(ctx context.Context, rec *models.ShopTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append(s.transactions, *rec)
	return nil
}

func (s *MemoryStore) Transactions(ctx context.Context, userID int64, page, limit int) ([]models.ShopTransaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.ShopTransaction
	for _, r := range s.transactions {
		if r.UserID == userID {
			all = append(all, r)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RedeemedAt.After(all[j].RedeemedAt)
	})

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []models.ShopTransaction{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *MemoryStore) QuestDefinitions(ctx context.Context) ([]models.QuestDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questDefs, nil
}

func (s *MemoryStore) ShopItems(ctx context.Context) ([]models.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shopItems, nil
}

// SeedCatalog installs catalog rows for the store-first read path.
func (s *MemoryStore) SeedCatalog(quests []models.QuestDefinition, items []models.ShopItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questDefs = quests
	s.shopItems = items
}

// copyAccount deep-copies via the JSON round trip the account already
// supports. Cheap at in-memory scale and immune to forgotten fields.
func copyAccount(a *models.Account) *models.Account {
	b, _ := json.Marshal(a)
	var out models.Account
	json.Unmarshal(b, &out)
	return &out
}
