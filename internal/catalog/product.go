package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"shop-service/internal/apperr"
	"shop-service/internal/models"
)

// Product is a catalog entry with a guarded stock counter. The stock count
// never goes negative; it is mutated only through DecreaseStock and SetStock.
type Product struct {
	id        string
	name      string
	category  models.Category
	attribute string // brand for electronics, size for clothing

	mu    sync.Mutex
	price decimal.Decimal
	stock int
}

// NewProduct validates construction input and returns a product.
func NewProduct(id, name string, price decimal.Decimal, stock int, category models.Category, attribute string) (*Product, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("product id and name required: %w", apperr.ErrEmptyName)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrInvalidPrice)
	}
	if stock < 0 {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrInvalidStock)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrInvalidCategory)
	}

	return &Product{
		id:        id,
		name:      name,
		category:  category,
		attribute: attribute,
		price:     price,
		stock:     stock,
	}, nil
}

func (p *Product) ID() string                { return p.id }
func (p *Product) Name() string              { return p.name }
func (p *Product) Category() models.Category { return p.category }
func (p *Product) Attribute() string         { return p.attribute }

// Price returns the current unit price.
func (p *Product) Price() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.price
}

// SetPrice updates the unit price. Prices may drift between add-to-cart and
// checkout; cart totals always use the current price.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("product %s: %w", p.id, apperr.ErrInvalidPrice)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.price = price
	return nil
}

// Stock returns the current stock count.
func (p *Product) Stock() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stock
}

// Available reports whether any stock remains.
func (p *Product) Available() bool {
	return p.Stock() > 0
}

// SetStock replaces the stock count.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return fmt.Errorf("product %s: %w", p.id, apperr.ErrInvalidStock)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stock = stock
	return nil
}

// DecreaseStock atomically deducts qty from the stock count. The check and
// the deduction share one critical section so the count cannot go negative
// under contention.
func (p *Product) DecreaseStock(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("product %s: %w", p.id, apperr.ErrInvalidQuantity)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if qty > p.stock {
		return fmt.Errorf("product %s: available=%d, requested=%d: %w",
			p.id, p.stock, qty, apperr.ErrInsufficientStock)
	}
	p.stock -= qty
	return nil
}
