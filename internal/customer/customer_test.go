package customer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/apperr"
	"shop-service/internal/cart"
	"shop-service/internal/catalog"
	"shop-service/internal/payment"
)

func newTestCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := New("Alice", cart.New(catalog.NewCatalog()))
	require.NoError(t, err)
	return c
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New("   ", cart.New(catalog.NewCatalog()))
	assert.ErrorIs(t, err, apperr.ErrEmptyName)
}

func TestInstrumentIndexingIsOneBased(t *testing.T) {
	c := newTestCustomer(t)

	card, err := payment.NewCard("1234567890123456", decimal.NewFromInt(100))
	require.NoError(t, err)
	wallet, err := payment.NewWallet("user@example.com", decimal.NewFromInt(50))
	require.NoError(t, err)
	c.AddInstrument(card)
	c.AddInstrument(wallet)

	first, err := c.Instrument(1)
	require.NoError(t, err)
	assert.Equal(t, payment.KindCard, first.Kind())

	second, err := c.Instrument(2)
	require.NoError(t, err)
	assert.Equal(t, payment.KindWallet, second.Kind())

	_, err = c.Instrument(0)
	assert.ErrorIs(t, err, apperr.ErrInvalidIndex)
	_, err = c.Instrument(3)
	assert.ErrorIs(t, err, apperr.ErrInvalidIndex)
}

func TestRemoveInstrument(t *testing.T) {
	c := newTestCustomer(t)

	card, err := payment.NewCard("1234567890123456", decimal.NewFromInt(100))
	require.NoError(t, err)
	wallet, err := payment.NewWallet("user@example.com", decimal.NewFromInt(50))
	require.NoError(t, err)
	c.AddInstrument(card)
	c.AddInstrument(wallet)

	require.NoError(t, c.RemoveInstrument(1))

	instruments := c.Instruments()
	require.Len(t, instruments, 1)
	assert.Equal(t, payment.KindWallet, instruments[0].Kind())

	assert.ErrorIs(t, c.RemoveInstrument(5), apperr.ErrInvalidIndex)
}
