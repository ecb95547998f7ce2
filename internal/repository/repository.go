package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"auction-console/internal/biddingerrors"
	"auction-console/internal/models"
)

// AuctionDB defines the item, bid and user storage of the auction backend
type AuctionDB interface {
	ListItems() ([]models.Item, error)
	GetItem(itemID string) (models.Item, error)
	AddItem(item models.Item) error
	UpdateItem(item models.Item) error
	DeleteItem(itemID string) error
	RecordBidForItem(bid models.Bid) error
	AddUser(user models.User) error
	GetUserByEmail(email string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu     sync.RWMutex
	items  map[string]models.Item  // key: itemID -> value: item without bids
	order  []string                // itemIDs in insertion order
	bids   map[string][]models.Bid // key: itemID -> value: bids in arrival order
	users  map[string]models.User  // key: lower-cased email -> value: user
	byName map[string]string       // key: username -> value: lower-cased email
}

var _ AuctionDB = (*MemoryRepo)(nil)

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		items:  make(map[string]models.Item),
		bids:   make(map[string][]models.Bid),
		users:  make(map[string]models.User),
		byName: make(map[string]string),
	}
}

// ListItems returns every item with its bids, oldest first
func (r *MemoryRepo) ListItems() ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.Item, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.withBidsLocked(r.items[id]))
	}
	return items, nil
}

// GetItem returns one item with its bids
func (r *MemoryRepo) GetItem(itemID string) (models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return models.Item{}, fmt.Errorf("get item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return r.withBidsLocked(item), nil
}

// AddItem stores a new item
func (r *MemoryRepo) AddItem(item models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		return fmt.Errorf("add item: %w - empty id", biddingerrors.ErrInvalidItem)
	}
	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	item.Bids = nil
	item.HighestBid = nil
	r.items[item.ID] = item
	return nil
}

// UpdateItem replaces the fields of an existing item; bids are kept
func (r *MemoryRepo) UpdateItem(item models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("update item %s: %w", item.ID, biddingerrors.ErrItemNotFound)
	}
	item.Bids = nil
	item.HighestBid = nil
	r.items[item.ID] = item
	return nil
}

// DeleteItem removes an item and its bids
func (r *MemoryRepo) DeleteItem(itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[itemID]; !ok {
		return fmt.Errorf("delete item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	delete(r.items, itemID)
	delete(r.bids, itemID)
	for i, id := range r.order {
		if id == itemID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// RecordBidForItem appends a bid to an item's history
func (r *MemoryRepo) RecordBidForItem(bid models.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[bid.ItemID]; !ok {
		return fmt.Errorf("record bid for item %s: %w", bid.ItemID, biddingerrors.ErrItemNotFound)
	}
	r.bids[bid.ItemID] = append(r.bids[bid.ItemID], bid)
	return nil
}

// AddUser stores an account; email and username must both be unused
func (r *MemoryRepo) AddUser(user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, taken := r.users[key]; taken {
		return fmt.Errorf("add user %s: %w", user.Email, biddingerrors.ErrDuplicateUser)
	}
	if _, taken := r.byName[user.Username]; taken {
		return fmt.Errorf("add user %s: %w", user.Username, biddingerrors.ErrDuplicateUser)
	}
	r.users[key] = user
	r.byName[user.Username] = key
	return nil
}

// GetUserByEmail looks an account up by email, case-insensitively
func (r *MemoryRepo) GetUserByEmail(email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return models.User{}, fmt.Errorf("get user %s: %w", email, biddingerrors.ErrUserNotFound)
	}
	return user, nil
}

// GetUserByUsername looks an account up by username
func (r *MemoryRepo) GetUserByUsername(username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byName[username]
	if !ok {
		return models.User{}, fmt.Errorf("get user %s: %w", username, biddingerrors.ErrUserNotFound)
	}
	return r.users[key], nil
}

// withBidsLocked attaches a copy of the bid history and the highest amount
func (r *MemoryRepo) withBidsLocked(item models.Item) models.Item {
	bids := append([]models.Bid(nil), r.bids[item.ID]...)
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Timestamp.Before(bids[j].Timestamp) })
	item.Bids = bids
	if len(bids) > 0 {
		highest := bids[0].Amount
		for _, b := range bids[1:] {
			if b.Amount > highest {
				highest = b.Amount
			}
		}
		item.HighestBid = &highest
	}
	if item.Bids == nil {
		item.Bids = []models.Bid{}
	}
	return item
}
