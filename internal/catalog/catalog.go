// Package catalog holds the read-only quest and shop configuration. There
// is one read path: load from the store tables, fall back to the
// compiled-in defaults when a table is empty. The catalog is immutable
// after Load; refresh happens out-of-band, not at request time.
package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/cozyclip/backend/internal/models"
)

// Source provides the store-side catalog rows. Satisfied by ledger.Store.
type Source interface {
	QuestDefinitions(ctx context.Context) ([]models.QuestDefinition, error)
	ShopItems(ctx context.Context) ([]models.ShopItem, error)
}

type Catalog struct {
	mu              sync.RWMutex
	questsByID      map[string]models.QuestDefinition
	questsByTrigger map[string][]models.QuestDefinition
	itemsByID       map[string]models.ShopItem
	items           []models.ShopItem
	quests          []models.QuestDefinition
}

// Load reads the catalog from src, substituting defaults for any empty
// set, and validates it. Invalid config fails startup.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	quests, err := src.QuestDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quest definitions: %w", err)
	}
	if len(quests) == 0 {
		quests = DefaultQuests()
		log.Printf("[catalog] no quest definitions in store, using %d defaults", len(quests))
	}

	items, err := src.ShopItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shop items: %w", err)
	}
	if len(items) == 0 {
		items = DefaultItems()
		log.Printf("[catalog] no shop items in store, using %d defaults", len(items))
	}

	c, err := build(quests, items)
	if err != nil {
		return nil, err
	}
	log.Printf("[catalog] loaded %d quests, %d shop items", len(quests), len(items))
	return c, nil
}

// New builds a catalog directly from definitions. Used by tests.
func New(quests []models.QuestDefinition, items []models.ShopItem) (*Catalog, error) {
	return build(quests, items)
}

func build(quests []models.QuestDefinition, items []models.ShopItem) (*Catalog, error) {
	c := &Catalog{
		questsByID:      make(map[string]models.QuestDefinition, len(quests)),
		questsByTrigger: make(map[string][]models.QuestDefinition),
		itemsByID:       make(map[string]models.ShopItem, len(items)),
		quests:          quests,
		items:           items,
	}

	for _, q := range quests {
		if q.QuestID == "" || q.Trigger == "" {
			return nil, fmt.Errorf("quest %q: quest_id and trigger are required", q.QuestID)
		}
		if q.Target <= 0 {
			return nil, fmt.Errorf("quest %q: target must be positive", q.QuestID)
		}
		if _, dup := c.questsByID[q.QuestID]; dup {
			return nil, fmt.Errorf("duplicate quest id %q", q.QuestID)
		}
		c.questsByID[q.QuestID] = q
		c.questsByTrigger[q.Trigger] = append(c.questsByTrigger[q.Trigger], q)
	}

	for _, i := range items {
		if i.ID == "" {
			return nil, fmt.Errorf("shop item %q: id is required", i.Name)
		}
		if i.Cost < 0 {
			return nil, fmt.Errorf("shop item %q: cost must not be negative", i.ID)
		}
		if _, dup := c.itemsByID[i.ID]; dup {
			return nil, fmt.Errorf("duplicate shop item id %q", i.ID)
		}
		c.itemsByID[i.ID] = i
	}

	return c, nil
}

// QuestsForTrigger returns all quests listening for the event type.
// Returns an empty slice for unknown triggers.
func (c *Catalog) QuestsForTrigger(eventType string) []models.QuestDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.questsByTrigger[eventType]
}

// Quest returns the definition for questID.
func (c *Catalog) Quest(questID string) (models.QuestDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.questsByID[questID]
	return q, ok
}

// Quests returns all quest definitions in load order.
func (c *Catalog) Quests() []models.QuestDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quests
}

// Item returns the shop item for itemID.
func (c *Catalog) Item(itemID string) (models.ShopItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.itemsByID[itemID]
	return i, ok
}

// Items returns one page of shop items and the total count.
func (c *Catalog) Items(page, limit int) ([]models.ShopItem, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := len(c.items)
	start := (page - 1) * limit
	if start >= total {
		return []models.ShopItem{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return c.items[start:end], total
}
