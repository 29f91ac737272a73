package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/toko-checkout/internal/lock"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

var (
	// ErrNotFound indicates the requested item is not in the catalog.
	ErrNotFound = errors.New("catalog item not found")
	// ErrInsufficientStock is returned by Reserve when any requested quantity exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockRequest asks Reserve to take Qty units of ItemID.
type StockRequest struct {
	ItemID ID
	Qty    int
}

// Store owns every catalog item for the process lifetime. Carts refer to items by ID only.
//
// mu guards the item map and field access. The check-and-decrement in Reserve is made atomic
// per item by the locker, keyed by ItemLockKey.
type Store struct {
	mu    sync.RWMutex
	items map[ID]*Item
	order []ID

	locker  lock.Locker
	lockTTL time.Duration
}

// StoreOption customises NewStore.
type StoreOption func(*Store)

// WithLocker sets the locker guarding stock reservations. ttl bounds how long a lease-based
// locker keeps an item key.
func WithLocker(l lock.Locker, ttl time.Duration) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.locker = l
		}
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// NewStore constructs an empty catalog backed by an in-process locker.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		items:   make(map[ID]*Item),
		locker:  lock.NewLocal(),
		lockTTL: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ItemLockKey names the lock serialising stock changes for id.
func ItemLockKey(id ID) string { return "catalog:item:" + string(id) }

// Add creates an item from p and registers it.
func (s *Store) Add(p Params) (*Item, error) {
	item, err := NewItem(p)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.id] = item
	s.order = append(s.order, item.id)
	return item, nil
}

// Get returns the canonical item. Mutate it through Store methods when the store is shared
// between goroutines.
func (s *Store) Get(id ID) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return item, nil
}

// Snapshot returns a detached copy of the item.
func (s *Store) Snapshot(id ID) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	cp := *item
	return &cp, nil
}

// List returns item views in insertion order.
func (s *Store) List() []View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]View, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].View())
	}
	return out
}

// Restock adds qty units to the item.
func (s *Store) Restock(id ID, qty int) (View, error) {
	if qty <= 0 {
		return View{}, fmt.Errorf("restock quantity must be positive: %w", ErrInvalidItem)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return View{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	item.IncrementStock(qty)
	return item.View(), nil
}

// SetPrice updates the unit price used by future cart additions.
func (s *Store) SetPrice(id ID, price pricing.Money) (View, error) {
	if price.IsNegative() {
		return View{}, fmt.Errorf("price must not be negative: %w", ErrInvalidItem)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return View{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	item.SetPrice(price)
	return item.View(), nil
}

// MarkExpired flags the item as expired so it can no longer enter carts.
func (s *Store) MarkExpired(id ID) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return View{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	item.MarkExpired()
	return item.View(), nil
}

// Reserve decrements stock for every request, or for none of them. Quantities for the same
// item are summed before the availability check. Each item's lock is held from the check to the
// decrement; a lock failure is returned wrapped and leaves stock untouched.
func (s *Store) Reserve(ctx context.Context, reqs []StockRequest) error {
	totals := make(map[ID]int, len(reqs))
	order := make([]ID, 0, len(reqs))
	for _, r := range reqs {
		if r.Qty <= 0 {
			return fmt.Errorf("%s: quantity must be positive: %w", r.ItemID, ErrInsufficientStock)
		}
		if _, seen := totals[r.ItemID]; !seen {
			order = append(order, r.ItemID)
		}
		totals[r.ItemID] += r.Qty
	}
	keys := make([]string, 0, len(order))
	for _, id := range order {
		keys = append(keys, ItemLockKey(id))
	}

	var reserveErr error
	err := lock.WithKeys(ctx, s.locker, keys, s.lockTTL, func(context.Context) error {
		if reserveErr = s.checkStock(order, totals); reserveErr != nil {
			return nil
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, id := range order {
			s.items[id].DecrementStock(totals[id])
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("lock stock: %w", err)
	}
	return reserveErr
}

func (s *Store) checkStock(order []ID, totals map[ID]int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range order {
		item, ok := s.items[id]
		if !ok {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		if !item.IsAvailable(totals[id]) {
			return fmt.Errorf("%s: requested %d, available %d: %w", item.name, totals[id], item.stock, ErrInsufficientStock)
		}
	}
	return nil
}
