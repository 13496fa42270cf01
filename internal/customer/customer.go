// Package customer ties together one customer's cart, payment instruments
// and order history for the single-session scope.
package customer

import (
	"fmt"
	"strings"
	"sync"

	"shop-service/internal/apperr"
	"shop-service/internal/cart"
	"shop-service/internal/ledger"
	"shop-service/internal/payment"
)

// Customer owns a cart, an ordered list of payment instruments and an
// order ledger. Instrument order matters for 1-based display indexing.
type Customer struct {
	name    string
	Cart    *cart.Cart
	History *ledger.Ledger

	mu          sync.Mutex
	instruments []payment.Instrument
}

// New validates the name and creates a customer with an empty cart and
// ledger.
func New(name string, c *cart.Cart) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("customer: %w", apperr.ErrEmptyName)
	}
	return &Customer{
		name:    name,
		Cart:    c,
		History: ledger.New(),
	}, nil
}

// Name returns the customer's name.
func (c *Customer) Name() string { return c.name }

// AddInstrument appends a payment instrument to the customer's list.
func (c *Customer) AddInstrument(inst payment.Instrument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instruments = append(c.instruments, inst)
}

// RemoveInstrument removes the instrument at the 1-based index.
func (c *Customer) RemoveInstrument(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 1 || index > len(c.instruments) {
		return fmt.Errorf("remove instrument %d: %w", index, apperr.ErrInvalidIndex)
	}
	i := index - 1
	c.instruments = append(c.instruments[:i], c.instruments[i+1:]...)
	return nil
}

// Instrument returns the instrument at the 1-based index.
func (c *Customer) Instrument(index int) (payment.Instrument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 1 || index > len(c.instruments) {
		return nil, fmt.Errorf("instrument %d: %w", index, apperr.ErrInvalidIndex)
	}
	return c.instruments[index-1], nil
}

// Instruments returns a copy of the instrument list in display order.
func (c *Customer) Instruments() []payment.Instrument {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]payment.Instrument, len(c.instruments))
	copy(out, c.instruments)
	return out
}
