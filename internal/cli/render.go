package cli

import (
	"fmt"
	"strings"

	"shop-service/internal/catalog"
	"shop-service/internal/models"
	"shop-service/internal/payment"
)

// renderProduct formats one catalog entry, dispatching on the category tag
// for the category-specific attribute.
func renderProduct(p *catalog.Product) string {
	var kind string
	switch p.Category() {
	case models.CategoryElectronics:
		kind = "Electronics"
	case models.CategoryClothing:
		kind = "Clothing"
	default:
		kind = string(p.Category())
	}

	soldOut := ""
	if !p.Available() {
		soldOut = " [SOLD OUT]"
	}

	return fmt.Sprintf("ID: %s | %s: %s (%s: %s) - $%s | Stock: %d%s",
		p.ID(), kind, p.Name(), p.Category().AttributeLabel(), p.Attribute(),
		p.Price().StringFixed(2), p.Stock(), soldOut)
}

// renderCartLine resolves the product name and current price for display.
func renderCartLine(cat *catalog.Catalog, line models.CartLine) string {
	p, err := cat.Get(line.ProductID)
	if err != nil {
		return fmt.Sprintf("%s x%d (no longer in catalog)", line.ProductID, line.Quantity)
	}
	return fmt.Sprintf("%s x%d ($%s each)", p.Name(), line.Quantity, p.Price().StringFixed(2))
}

// renderInstrument formats one instrument with its 1-based display index.
func renderInstrument(index int, inst payment.Instrument) string {
	return fmt.Sprintf("%d. %s | Balance: $%s", index, inst.Describe(), inst.Balance().StringFixed(2))
}

// renderOrder formats a completed order with its lines and payments.
func renderOrder(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s | Date: %s | Total Paid: $%s\n",
		order.ID, order.CreatedAt.Format("2006-01-02 15:04:05"), order.TotalPaid.StringFixed(2))
	b.WriteString("Items:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "  %s x%d ($%s each)\n", line.Name, line.Quantity, line.UnitPrice.StringFixed(2))
	}
	b.WriteString("Payments:\n")
	for _, rec := range order.Payments {
		fmt.Fprintf(&b, "  %s: $%s\n", rec.Instrument, rec.Amount.StringFixed(2))
	}
	return strings.TrimRight(b.String(), "\n")
}
