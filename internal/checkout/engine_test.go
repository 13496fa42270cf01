package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/apperr"
	"shop-service/internal/cart"
	"shop-service/internal/catalog"
	"shop-service/internal/customer"
	"shop-service/internal/models"
	"shop-service/internal/payment"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testPolicy() Policy {
	return Policy{
		DiscountThreshold: dec("100"),
		DiscountRate:      dec("0.10"),
		SettleEpsilon:     dec("0.000000001"),
	}
}

// scriptStep is one scripted payment decision.
type scriptStep struct {
	index  int
	amount string
	cancel bool
}

// scriptCollector replays a fixed sequence of payment decisions and
// records what the engine reports back.
type scriptCollector struct {
	t       *testing.T
	script  []scriptStep
	pos     int
	applied []models.PaymentRecord
	failed  int
}

func (c *scriptCollector) NextPayment(remaining decimal.Decimal) (Selection, error) {
	if c.pos >= len(c.script) {
		c.t.Fatalf("engine asked for payment %d but script has %d steps (remaining %s)",
			c.pos+1, len(c.script), remaining)
	}
	step := c.script[c.pos]
	c.pos++

	if step.cancel {
		return Selection{}, apperr.ErrCheckoutCancelled
	}
	return Selection{Index: step.index, Amount: dec(step.amount)}, nil
}

func (c *scriptCollector) ChargeFailed(instrument string, amount decimal.Decimal, err error) {
	c.failed++
}

func (c *scriptCollector) ChargeApplied(record models.PaymentRecord, remaining decimal.Decimal) {
	c.applied = append(c.applied, record)
}

type fixture struct {
	cat    *catalog.Catalog
	cust   *customer.Customer
	engine *Engine
	card   *payment.Card
	wallet *payment.Wallet
}

func newFixture(t *testing.T, cardBalance, walletBalance string) *fixture {
	t.Helper()

	cat := catalog.NewCatalog()
	_, err := cat.CreateProduct("E01", "Smartphone", dec("299.99"), 5, models.CategoryElectronics, "Samsung")
	require.NoError(t, err)
	_, err = cat.CreateProduct("C01", "T-shirt", dec("19.99"), 10, models.CategoryClothing, "M")
	require.NoError(t, err)

	cust, err := customer.New("Alice", cart.New(cat))
	require.NoError(t, err)

	card, err := payment.NewCard("1234567890123456", dec(cardBalance))
	require.NoError(t, err)
	wallet, err := payment.NewWallet("user@example.com", dec(walletBalance))
	require.NoError(t, err)
	cust.AddInstrument(card)
	cust.AddInstrument(wallet)

	return &fixture{
		cat:    cat,
		cust:   cust,
		engine: NewEngine(cat, testPolicy()),
		card:   card,
		wallet: wallet,
	}
}

func (f *fixture) addProduct(t *testing.T, id, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := f.cat.CreateProduct(id, "Item "+id, dec(price), stock, models.CategoryClothing, "M")
	require.NoError(t, err)
	return p
}

func TestQuoteEmptyCart(t *testing.T) {
	f := newFixture(t, "100", "100")

	_, err := f.engine.Quote(f.cust)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)

	_, err = f.engine.Checkout(context.Background(), f.cust, &scriptCollector{t: t})
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
	assert.Equal(t, 0, f.cust.History.Len())
}

func TestQuoteDiscountPolicy(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		qty      int
		subtotal string
		discount string
		total    string
	}{
		{"below threshold", "50.00", 1, "50.00", "0", "50.00"},
		{"exactly at threshold", "100.00", 1, "100.00", "0", "100.00"},
		{"just above threshold", "100.01", 1, "100.01", "10.001", "90.009"},
		{"well above threshold", "75.00", 2, "150.00", "15.00", "135.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "1000", "1000")
			f.addProduct(t, "P1", tt.price, 10)
			require.NoError(t, f.cust.Cart.AddLine("P1", tt.qty))

			quote, err := f.engine.Quote(f.cust)
			require.NoError(t, err)

			assert.True(t, quote.Subtotal.Equal(dec(tt.subtotal)), "subtotal = %s", quote.Subtotal)
			assert.True(t, quote.Discount.Equal(dec(tt.discount)), "discount = %s", quote.Discount)
			assert.True(t, quote.Total.Equal(dec(tt.total)), "total = %s", quote.Total)
			assert.False(t, quote.Total.IsNegative())
		})
	}
}

// Subtotal $50, no discount, one exact charge settles the order.
func TestCheckoutSingleInstrumentExact(t *testing.T) {
	f := newFixture(t, "100", "500")
	f.addProduct(t, "P1", "50.00", 3)
	require.NoError(t, f.cust.Cart.AddLine("P1", 1))

	col := &scriptCollector{t: t, script: []scriptStep{
		{index: 1, amount: "50.00"},
	}}

	order, err := f.engine.Checkout(context.Background(), f.cust, col)
	require.NoError(t, err)

	assert.True(t, order.TotalPaid.Equal(dec("50.00")))
	require.Len(t, order.Payments, 1)
	assert.True(t, order.Payments[0].Amount.Equal(dec("50.00")))
	assert.Equal(t, payment.KindCard, order.Payments[0].Kind)
	assert.True(t, f.card.Balance().Equal(dec("50")), "card balance = %s", f.card.Balance())
}

// Subtotal $150, 10% discount, split across card and wallet.
func TestCheckoutSplitAcrossInstruments(t *testing.T) {
	f := newFixture(t, "1000", "500")
	p := f.addProduct(t, "P1", "75.00", 4)
	require.NoError(t, f.cust.Cart.AddLine("P1", 2))

	col := &scriptCollector{t: t, script: []scriptStep{
		{index: 1, amount: "100.00"},
		{index: 2, amount: "35.00"},
	}}

	order, err := f.engine.Checkout(context.Background(), f.cust, col)
	require.NoError(t, err)

	assert.True(t, order.TotalPaid.Equal(dec("135.00")))
	require.Len(t, order.Payments, 2)
	assert.Equal(t, payment.KindCard, order.Payments[0].Kind)
	assert.True(t, order.Payments[0].Amount.Equal(dec("100.00")))
	assert.Equal(t, payment.KindWallet, order.Payments[1].Kind)
	assert.True(t, order.Payments[1].Amount.Equal(dec("35.00")))

	// Payments sum to the final total.
	sum := decimal.Zero
	for _, rec := range order.Payments {
		sum = sum.Add(rec.Amount)
	}
	assert.True(t, sum.Equal(order.TotalPaid))

	// Stock committed, cart cleared, order archived.
	assert.Equal(t, 2, p.Stock())
	assert.True(t, f.cust.Cart.IsEmpty())
	require.Equal(t, 1, f.cust.History.Len())
	assert.Equal(t, order.ID, f.cust.History.List()[0].ID)
}

// A declined charge keeps the outstanding balance intact and the loop
// re-prompts; the customer settles with the other instrument.
func TestCheckoutRetryAfterInsufficientFunds(t *testing.T) {
	f := newFixture(t, "50", "500")
	f.addProduct(t, "P1", "250.00", 2)
	require.NoError(t, f.cust.Cart.AddLine("P1", 1))
	// finalTotal = 250 - 25 = 225

	col := &scriptCollector{t: t, script: []scriptStep{
		{index: 1, amount: "200.00"}, // card has only $50
		{index: 2, amount: "225.00"},
	}}

	order, err := f.engine.Checkout(context.Background(), f.cust, col)
	require.NoError(t, err)

	assert.Equal(t, 1, col.failed)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, payment.KindWallet, order.Payments[0].Kind)
	assert.True(t, f.card.Balance().Equal(dec("50")), "declined charge must not move the card balance")
	assert.True(t, f.wallet.Balance().Equal(dec("275")))
}

// Cancelling mid-loop aborts the checkout but does not reverse charges
// already applied in earlier iterations.
func TestCheckoutCancelKeepsPartialCharges(t *testing.T) {
	f := newFixture(t, "100", "500")
	p := f.addProduct(t, "P1", "60.00", 5)
	require.NoError(t, f.cust.Cart.AddLine("P1", 1))

	col := &scriptCollector{t: t, script: []scriptStep{
		{index: 1, amount: "20.00"},
		{cancel: true},
	}}

	_, err := f.engine.Checkout(context.Background(), f.cust, col)
	assert.ErrorIs(t, err, apperr.ErrCheckoutCancelled)

	// The $20 stays charged: documented non-rollback limitation.
	assert.True(t, f.card.Balance().Equal(dec("80")), "card balance = %s", f.card.Balance())

	// No stock committed, no order archived, cart intact.
	assert.Equal(t, 5, p.Stock())
	assert.Equal(t, 0, f.cust.History.Len())
	assert.False(t, f.cust.Cart.IsEmpty())
}

func TestCheckoutInvalidInstrumentIndex(t *testing.T) {
	f := newFixture(t, "100", "500")
	p := f.addProduct(t, "P1", "30.00", 5)
	require.NoError(t, f.cust.Cart.AddLine("P1", 1))

	col := &scriptCollector{t: t, script: []scriptStep{
		{index: 7, amount: "30.00"},
	}}

	_, err := f.engine.Checkout(context.Background(), f.cust, col)
	assert.ErrorIs(t, err, apperr.ErrInvalidIndex)

	assert.True(t, f.card.Balance().Equal(dec("100")))
	assert.Equal(t, 5, p.Stock())
	assert.Equal(t, 0, f.cust.History.Len())
}

func TestCheckoutInvalidPaymentAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-10"},
		{"above remaining", "30.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "100", "500")
			f.addProduct(t, "P1", "30.00", 5)
			require.NoError(t, f.cust.Cart.AddLine("P1", 1))

			col := &scriptCollector{t: t, script: []scriptStep{
				{index: 1, amount: tt.amount},
			}}

			_, err := f.engine.Checkout(context.Background(), f.cust, col)
			assert.ErrorIs(t, err, apperr.ErrInvalidPaymentAmount)
			assert.True(t, f.card.Balance().Equal(dec("100")))
			assert.Equal(t, 0, f.cust.History.Len())
		})
	}
}

// Stock drift between add-to-cart and commit surfaces as a terminal
// failure; charges are kept, the order is not archived.
func TestCheckoutCommitFailureAfterSettlement(t *testing.T) {
	f := newFixture(t, "1000", "500")
	p := f.addProduct(t, "P1", "40.00", 2)
	require.NoError(t, f.cust.Cart.AddLine("P1", 2))

	// Drain stock behind the cart's back.
	require.NoError(t, p.DecreaseStock(1))

	col := &scriptCollector{t: t, script: []scriptStep{
		{index: 1, amount: "80.00"},
	}}

	_, err := f.engine.Checkout(context.Background(), f.cust, col)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// The charge is not refunded and the order is not archived.
	assert.True(t, f.card.Balance().Equal(dec("920")), "card balance = %s", f.card.Balance())
	assert.Equal(t, 0, f.cust.History.Len())
	assert.False(t, f.cust.Cart.IsEmpty())
	assert.Equal(t, 1, p.Stock())
}

func TestCheckoutOrderSnapshotIsDecoupled(t *testing.T) {
	f := newFixture(t, "1000", "500")
	p := f.addProduct(t, "P1", "40.00", 5)
	require.NoError(t, f.cust.Cart.AddLine("P1", 2))

	col := &scriptCollector{t: t, script: []scriptStep{
		{index: 1, amount: "80.00"},
	}}

	order, err := f.engine.Checkout(context.Background(), f.cust, col)
	require.NoError(t, err)

	// Later catalog changes must not leak into the archived order.
	require.NoError(t, p.SetPrice(dec("99.00")))

	archived := f.cust.History.List()[0]
	require.Len(t, archived.Lines, 1)
	assert.True(t, archived.Lines[0].UnitPrice.Equal(dec("40.00")))
	assert.Equal(t, 2, archived.Lines[0].Quantity)
	assert.Equal(t, order.ID, archived.ID)
	assert.NotEmpty(t, archived.ID)
}

func TestCheckoutMultipleSmallPaymentsSettleExactly(t *testing.T) {
	f := newFixture(t, "1000", "500")
	f.addProduct(t, "P1", "0.30", 10)
	require.NoError(t, f.cust.Cart.AddLine("P1", 1))

	col := &scriptCollector{t: t, script: []scriptStep{
		{index: 1, amount: "0.10"},
		{index: 1, amount: "0.20"},
	}}

	order, err := f.engine.Checkout(context.Background(), f.cust, col)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, rec := range order.Payments {
		sum = sum.Add(rec.Amount)
	}
	assert.True(t, sum.Equal(dec("0.30")))
	require.Len(t, order.Payments, 2)
}
