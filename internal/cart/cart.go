// Package cart accumulates (product, quantity) lines for one customer
// ahead of checkout. Lines reference catalog products by id only.
package cart

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"shop-service/internal/apperr"
	"shop-service/internal/catalog"
	"shop-service/internal/models"
)

// Cart is an ordered accumulation of cart lines, unique by product id.
type Cart struct {
	catalog *catalog.Catalog

	mu    sync.Mutex
	lines []models.CartLine
}

// New creates an empty cart backed by the given catalog.
func New(cat *catalog.Catalog) *Cart {
	return &Cart{catalog: cat}
}

// AddLine adds qty units of the product to the cart, merging into an
// existing line for the same product. The stock check here is a soft
// check; checkout re-validates at commit time.
func (c *Cart) AddLine(productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("add to cart: %w", apperr.ErrInvalidQuantity)
	}

	p, err := c.catalog.Get(productID)
	if err != nil {
		return err
	}
	if qty > p.Stock() {
		return fmt.Errorf("add to cart: %s has %d in stock, requested %d: %w",
			p.Name(), p.Stock(), qty, apperr.ErrInsufficientStock)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, models.CartLine{ProductID: productID, Quantity: qty})
	return nil
}

// RemoveLine removes the line for the product. Removing an absent product
// is a no-op, not an error.
func (c *Cart) RemoveLine(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Total sums unit price times quantity over all lines using each product's
// current catalog price, not a frozen snapshot: prices may drift between
// add-to-cart and checkout.
func (c *Cart) Total() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range c.Lines() {
		p, err := c.catalog.Get(line.ProductID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("cart total: %w", err)
		}
		total = total.Add(p.Price().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// Clear empties the cart. Called only after a committed checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}
