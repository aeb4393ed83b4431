package cart

import (
	"sync"

	"github.com/arunavsaha123/food-vista/internal/models"
)

// Store owns a single session's cart. The cart is an ordered item list with
// at most one entry per product ID; all mutations are synchronous,
// serialized by the store's mutex, and reported to subscribers before the
// mutating call returns. Totals are recomputed from the item list on every
// read so there are no counters to drift out of sync.
type Store struct {
	mu          sync.Mutex
	items       []models.CartItem
	subscribers map[int]func(models.CartSummary)
	nextSubID   int
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{
		subscribers: make(map[int]func(models.CartSummary)),
	}
}

// Add puts a product in the cart. Adding a product already present
// increments its quantity instead of creating a second line.
func (s *Store) Add(product models.Product) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, models.CartItem{Product: product, Quantity: 1})
	}
	subs, summary := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, summary)
}

// Remove deletes the item for productID. Removing an absent product is a
// no-op, not an error.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	removed := s.removeLocked(productID)
	subs, summary := s.snapshotLocked()
	s.mu.Unlock()

	if removed {
		notify(subs, summary)
	}
}

// UpdateQuantity sets the quantity for productID. A quantity below 1 removes
// the item; an unknown product is a no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	changed := false
	if quantity < 1 {
		changed = s.removeLocked(productID)
	} else {
		for i := range s.items {
			if s.items[i].Product.ID == productID {
				s.items[i].Quantity = quantity
				changed = true
				break
			}
		}
	}
	subs, summary := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		notify(subs, summary)
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	subs, summary := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, summary)
}

// Summary returns the current items and derived totals.
func (s *Store) Summary() models.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// TotalItems returns the sum of all item quantities.
func (s *Store) TotalItems() int {
	return s.Summary().TotalItems
}

// TotalPrice returns the sum of quantity times unit price over all items.
func (s *Store) TotalPrice() float64 {
	return s.Summary().TotalPrice
}

// Subscribe registers fn to be called synchronously after every mutation.
// The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(models.CartSummary)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// removeLocked deletes the item for productID, preserving the order of the
// remaining items. Callers must hold s.mu.
func (s *Store) removeLocked(productID string) bool {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// snapshotLocked copies the subscriber list and current summary so
// notifications run outside the lock. Callers must hold s.mu.
func (s *Store) snapshotLocked() ([]func(models.CartSummary), models.CartSummary) {
	subs := make([]func(models.CartSummary), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs, s.summaryLocked()
}

func (s *Store) summaryLocked() models.CartSummary {
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)

	totalItems := 0
	totalPrice := 0.0
	for _, item := range s.items {
		totalItems += item.Quantity
		totalPrice += float64(item.Quantity) * models.UnitPrice
	}

	return models.CartSummary{
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
	}
}

func notify(subs []func(models.CartSummary), summary models.CartSummary) {
	for _, fn := range subs {
		fn(summary)
	}
}
