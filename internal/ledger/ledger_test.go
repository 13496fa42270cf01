package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/models"
)

func testOrder(id string) models.Order {
	return models.Order{
		ID:        id,
		TotalPaid: decimal.NewFromInt(50),
		Payments: []models.PaymentRecord{
			{Instrument: "Credit Card ending in 3456", Kind: "card", Amount: decimal.NewFromInt(50)},
		},
		CreatedAt: time.Now(),
	}
}

func TestAppendAndListOrder(t *testing.T) {
	l := New()
	assert.Equal(t, 0, l.Len())

	l.Append(testOrder("a"))
	l.Append(testOrder("b"))
	l.Append(testOrder("c"))

	orders := l.List()
	require.Len(t, orders, 3)
	assert.Equal(t, "a", orders[0].ID)
	assert.Equal(t, "b", orders[1].ID)
	assert.Equal(t, "c", orders[2].ID)
	assert.Equal(t, 3, l.Len())
}

func TestListIsIdempotent(t *testing.T) {
	l := New()
	l.Append(testOrder("a"))
	l.Append(testOrder("b"))

	first := l.List()
	second := l.List()
	assert.Equal(t, first, second)
}

func TestListReturnsCopy(t *testing.T) {
	l := New()
	l.Append(testOrder("a"))

	out := l.List()
	out[0].ID = "tampered"

	assert.Equal(t, "a", l.List()[0].ID, "mutating a listing must not reach the ledger")
}
