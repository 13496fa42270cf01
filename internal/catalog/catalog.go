package catalog

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"shop-service/internal/apperr"
	"shop-service/internal/models"
)

// Catalog is the arena for products: every cross-reference (cart lines,
// order snapshots) points into it by id, never by ownership.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]*Product
	order    []string // insertion order for stable listing
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		products: make(map[string]*Product),
	}
}

// AddProduct registers a product under its id.
func (c *Catalog) AddProduct(p *Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.products[p.ID()]; exists {
		return fmt.Errorf("product %s: %w", p.ID(), apperr.ErrDuplicateID)
	}
	c.products[p.ID()] = p
	c.order = append(c.order, p.ID())
	return nil
}

// CreateProduct validates input, constructs a product and registers it.
func (c *Catalog) CreateProduct(id, name string, price decimal.Decimal, stock int, category models.Category, attribute string) (*Product, error) {
	p, err := NewProduct(id, name, price, stock, category, attribute)
	if err != nil {
		return nil, err
	}
	if err := c.AddProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get retrieves a product by id.
func (c *Catalog) Get(id string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrProductNotFound)
	}
	return p, nil
}

// List returns all products in insertion order. The returned slice is a
// fresh copy, so callers can range over it repeatedly and concurrently
// with catalog mutation.
func (c *Catalog) List() []*Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Len returns the number of registered products.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
