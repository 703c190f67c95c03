package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cozyclip/backend/internal/models"
)

// maxTxRetries bounds the serialization-conflict retry loop. Conflicts
// only occur between concurrent writers on the same account, so a handful
// of attempts is plenty.
const maxTxRetries = 5

// PostgresStore persists accounts as one row per user with the variable
// shaped fields (quests, completed books, active days) in JSONB columns,
// and redemption records in an append-only table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Account(ctx context.Context, userID int64) (*models.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT user_id, coins, total_coins_earned, points,
		        unlocked_items, completed_books, completed_books_count,
		        quests, active_days, current_streak, longest_streak, badges,
		        created_at, updated_at
		 FROM accounts WHERE user_id = $1`,
		userID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// UpdateAccount runs mutate inside a serializable transaction and retries
// on write conflict. Each attempt re-reads the account, so mutate always
// sees the latest committed state (optimistic concurrency: last committed
// wins, the later writer re-validates against the updated state).
func (s *PostgresStore) UpdateAccount(ctx context.Context, userID int64, mutate Mutation) (*models.Account, error) {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		a, err := s.tryUpdate(ctx, userID, mutate)
		if err == nil {
			return a, nil
		}
		if !retryableTxError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrConflict, lastErr)
}

func (s *PostgresStore) tryUpdate(ctx context.Context, userID int64, mutate Mutation) (*models.Account, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lazy account creation, same upsert idiom as the users table.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		return nil, fmt.Errorf("upsert account: %w", err)
	}

	a, err := scanAccount(tx.QueryRowContext(ctx,
		`SELECT user_id, coins, total_coins_earned, points,
		        unlocked_items, completed_books, completed_books_count,
		        quests, active_days, current_streak, longest_streak, badges,
		        created_at, updated_at
		 FROM accounts WHERE user_id = $1`,
		userID,
	))
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}

	rec, err := mutate(a)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now().UTC()

	unlocked, _ := json.Marshal(emptyIfNilStrings(a.UnlockedItems))
	books, _ := json.Marshal(emptyIfNilBooks(a.CompletedBooks))
	quests, _ := json.Marshal(emptyIfNilQuests(a.Quests))
	days, _ := json.Marshal(emptyIfNilDays(a.ActiveDays))
	badges, _ := json.Marshal(emptyIfNilStrings(a.Badges))

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET
		    coins = $2, total_coins_earned = $3, points = $4,
		    unlocked_items = $5, completed_books = $6, completed_books_count = $7,
		    quests = $8, active_days = $9,
		    current_streak = $10, longest_streak = $11, badges = $12,
		    updated_at = $13
		 WHERE user_id = $1`,
		userID, a.Coins, a.TotalCoinsEarned, a.Points,
		unlocked, books, a.CompletedBooksCount,
		quests, days,
		a.CurrentStreak, a.LongestStreak, badges,
		a.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("write account: %w", err)
	}

	if rec != nil {
		if err := insertTransaction(ctx, tx, rec); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) LogTransaction(ctx context.Context, rec *models.ShopTransaction) error {
	return insertTransaction(ctx, s.db, rec)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, rec *models.ShopTransaction) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO shop_transactions
		    (id, user_id, item_id, item_name, cost, item_type, rarity, status, reason, redeemed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.UserID, rec.ItemID, rec.ItemName, rec.Cost,
		rec.ItemType, rec.Rarity, rec.Status, rec.Reason, rec.RedeemedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Transactions(ctx context.Context, userID int64, page, limit int) ([]models.ShopTransaction, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shop_transactions WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, item_id, item_name, cost, item_type, rarity, status, reason, redeemed_at
		 FROM shop_transactions
		 WHERE user_id = $1
		 ORDER BY redeemed_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("get transactions: %w", err)
	}
	defer rows.Close()

	recs := []models.ShopTransaction{}
	for rows.Next() {
		var r models.ShopTransaction
		if err := rows.Scan(&r.ID, &r.UserID, &r.ItemID, &r.ItemName, &r.Cost,
			&r.ItemType, &r.Rarity, &r.Status, &r.Reason, &r.RedeemedAt); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, total, rows.Err()
}

// ── Catalog reads ───────────────────────────────────────

func (s *PostgresStore) QuestDefinitions(ctx context.Context) ([]models.QuestDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT quest_id, title, trigger, target, reward_coins,
		        COALESCE(time_window, ''), unique_stories, genres_required
		 FROM quest_definitions ORDER BY quest_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("get quest definitions: %w", err)
	}
	defer rows.Close()

	var defs []models.QuestDefinition
	for rows.Next() {
		var q models.QuestDefinition
		var genres []byte
		if err := rows.Scan(&q.QuestID, &q.Title, &q.Trigger, &q.Target,
			&q.RewardCoins, &q.TimeWindow, &q.UniqueStories, &genres); err != nil {
			return nil, fmt.Errorf("scan quest definition: %w", err)
		}
		if len(genres) > 0 {
			json.Unmarshal(genres, &q.GenresRequired)
		}
		defs = append(defs, q)
	}
	return defs, rows.Err()
}

func (s *PostgresStore) ShopItems(ctx context.Context) ([]models.ShopItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, cost, item_type, rarity FROM shop_items ORDER BY cost, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("get shop items: %w", err)
	}
	defer rows.Close()

	var items []models.ShopItem
	for rows.Next() {
		var i models.ShopItem
		if err := rows.Scan(&i.ID, &i.Name, &i.Cost, &i.Type, &i.Rarity); err != nil {
			return nil, fmt.Errorf("scan shop item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ── Helpers ─────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	var unlocked, books, quests, days, badges []byte
	err := row.Scan(&a.UserID, &a.Coins, &a.TotalCoinsEarned, &a.Points,
		&unlocked, &books, &a.CompletedBooksCount,
		&quests, &days, &a.CurrentStreak, &a.LongestStreak, &badges,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(unlocked, &a.UnlockedItems); err != nil {
		return nil, fmt.Errorf("decode unlocked_items: %w", err)
	}
	if err := json.Unmarshal(books, &a.CompletedBooks); err != nil {
		return nil, fmt.Errorf("decode completed_books: %w", err)
	}
	if err := json.Unmarshal(quests, &a.Quests); err != nil {
		return nil, fmt.Errorf("decode quests: %w", err)
	}
	if err := json.Unmarshal(days, &a.ActiveDays); err != nil {
		return nil, fmt.Errorf("decode active_days: %w", err)
	}
	if err := json.Unmarshal(badges, &a.Badges); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	return &a, nil
}

// retryableTxError reports whether the error is a serialization failure
// or deadlock that a fresh attempt can resolve.
func retryableTxError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

func emptyIfNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIfNilBooks(b []models.CompletedBook) []models.CompletedBook {
	if b == nil {
		return []models.CompletedBook{}
	}
	return b
}

func emptyIfNilQuests(q []models.QuestProgress) []models.QuestProgress {
	if q == nil {
		return []models.QuestProgress{}
	}
	return q
}

func emptyIfNilDays(d map[string]bool) map[string]bool {
	if d == nil {
		return map[string]bool{}
	}
	return d
}
