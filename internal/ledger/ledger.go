// Package ledger keeps the append-only history of completed orders.
package ledger

import (
	"sync"

	"shop-service/internal/models"
)

// Ledger is an append-only sequence of orders in chronological insertion
// order. Orders are never mutated after they are appended.
type Ledger struct {
	mu     sync.RWMutex
	orders []models.Order
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append records a completed order.
func (l *Ledger) Append(order models.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders = append(l.orders, order)
}

// List returns the orders in insertion order. The returned slice is a
// fresh copy, so repeated listings without intervening appends are
// identical and callers cannot reach back into the ledger.
func (l *Ledger) List() []models.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// Len returns the number of recorded orders.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}
