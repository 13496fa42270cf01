package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category tags a product with its display kind. Rendering dispatches on
// the tag; new kinds are new constants, not new type hierarchies.
type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryClothing    Category = "CLOTHING"
)

// Valid reports whether the category is a known kind.
func (c Category) Valid() bool {
	return c == CategoryElectronics || c == CategoryClothing
}

// AttributeLabel names the category-specific attribute (brand for
// electronics, size for clothing).
func (c Category) AttributeLabel() string {
	switch c {
	case CategoryElectronics:
		return "Brand"
	case CategoryClothing:
		return "Size"
	default:
		return "Attribute"
	}
}

// CartLine is one cart entry, referencing its product by id only.
type CartLine struct {
	ProductID string
	Quantity  int
}

// PaymentRecord captures one successful charge at the moment it happened.
type PaymentRecord struct {
	Instrument string // masked descriptor of the charged instrument
	Kind       string // instrument kind (card, wallet)
	Amount     decimal.Decimal
}

// OrderLine is a snapshot of a cart line at order-creation time, decoupled
// from subsequent catalog changes.
type OrderLine struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID        string
	Lines     []OrderLine
	TotalPaid decimal.Decimal
	Payments  []PaymentRecord
	CreatedAt time.Time
}
