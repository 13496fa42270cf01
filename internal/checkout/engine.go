// Package checkout implements the settlement engine: it quotes a cart,
// collects partial payments across the customer's instruments until the
// balance is settled, commits stock and archives the order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-service/internal/apperr"
	"shop-service/internal/catalog"
	"shop-service/internal/customer"
	"shop-service/internal/models"
	"shop-service/internal/util"
)

// State identifies the engine's position in the checkout sequence.
type State int

const (
	StateIdle State = iota
	StateComputingTotal
	StateCollectingPayment
	StateCommittingStock
	StateArchiving
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateComputingTotal:
		return "ComputingTotal"
	case StateCollectingPayment:
		return "CollectingPayment"
	case StateCommittingStock:
		return "CommittingStock"
	case StateArchiving:
		return "Archiving"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Policy holds the volume discount configuration and the settlement
// tolerance.
type Policy struct {
	DiscountThreshold decimal.Decimal
	DiscountRate      decimal.Decimal
	SettleEpsilon     decimal.Decimal
}

// Quote is the priced view of a cart before payment collection.
type Quote struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Selection is one payment decision: a 1-based instrument index and the
// amount to charge against it.
type Selection struct {
	Index  int
	Amount decimal.Decimal
}

// Collector supplies payment decisions during settlement and receives
// structured progress so the presentation layer can render it. The engine
// never formats user-facing text itself.
type Collector interface {
	// NextPayment asks for the next selection given the outstanding
	// balance. Returning apperr.ErrCheckoutCancelled aborts the checkout.
	NextPayment(remaining decimal.Decimal) (Selection, error)

	// ChargeFailed reports a recoverable charge failure before the engine
	// re-prompts.
	ChargeFailed(instrument string, amount decimal.Decimal, err error)

	// ChargeApplied reports a successful charge and the new outstanding
	// balance.
	ChargeApplied(record models.PaymentRecord, remaining decimal.Decimal)
}

// Engine orchestrates checkout for one customer at a time.
type Engine struct {
	catalog *catalog.Catalog
	policy  Policy
	logger  *zap.Logger
}

// NewEngine creates a checkout engine over the catalog.
func NewEngine(cat *catalog.Catalog, policy Policy) *Engine {
	return &Engine{
		catalog: cat,
		policy:  policy,
		logger:  util.GetLogger(),
	}
}

// Quote computes subtotal, volume discount and final total for the
// customer's cart. It fails with apperr.ErrEmptyCart when there is nothing
// to buy.
func (e *Engine) Quote(cust *customer.Customer) (Quote, error) {
	if cust.Cart.IsEmpty() {
		return Quote{}, apperr.ErrEmptyCart
	}

	subtotal, err := cust.Cart.Total()
	if err != nil {
		return Quote{}, err
	}

	discount := decimal.Zero
	if subtotal.GreaterThan(e.policy.DiscountThreshold) {
		discount = subtotal.Mul(e.policy.DiscountRate)
	}

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}, nil
}

// Checkout drives the full sequence: quote, payment collection, stock
// commit, order archive. On EmptyCart, cancel or an invalid selection the
// engine returns to idle with no stock or ledger mutation.
//
// Known limitation: instruments are charged before stock is committed,
// and neither partial charges (on cancel) nor earlier line decrements
// (on a commit failure) are reversed.
func (e *Engine) Checkout(ctx context.Context, cust *customer.Customer, collector Collector) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "Engine.Checkout")
	defer span.End()

	util.CheckoutsStartedTotal.Inc()
	start := time.Now()

	state := e.transition(StateIdle, StateComputingTotal)
	quote, err := e.computeTotal(ctx, cust)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(apperr.Kind(err)).Inc()
		e.transition(state, StateIdle)
		return nil, err
	}

	state = e.transition(state, StateCollectingPayment)
	payments, err := e.collectPayments(ctx, cust, collector, quote.Total)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(apperr.Kind(err)).Inc()
		e.logger.Warn("Checkout aborted during payment collection",
			zap.String("customer", cust.Name()),
			zap.Int("payments_applied", len(payments)),
			zap.Error(err))
		e.transition(state, StateIdle)
		return nil, err
	}

	state = e.transition(state, StateCommittingStock)
	lines := cust.Cart.Lines()
	if err := e.commitStock(ctx, lines); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(apperr.Kind(err)).Inc()
		e.transition(state, StateIdle)
		return nil, err
	}

	state = e.transition(state, StateArchiving)
	order, err := e.archive(ctx, cust, lines, quote.Total, payments)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(apperr.Kind(err)).Inc()
		e.transition(state, StateIdle)
		return nil, err
	}
	e.transition(state, StateDone)

	util.CheckoutsSettledTotal.Inc()
	util.SettlementLatency.Observe(time.Since(start).Seconds())
	util.PaymentsPerCheckout.Observe(float64(len(payments)))

	e.logger.Info("Checkout settled",
		zap.String("order_id", order.ID),
		zap.String("customer", cust.Name()),
		zap.String("total", order.TotalPaid.StringFixed(2)),
		zap.Int("payments", len(order.Payments)))

	return order, nil
}

func (e *Engine) transition(from, to State) State {
	e.logger.Debug("Checkout state transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	return to
}

func (e *Engine) computeTotal(ctx context.Context, cust *customer.Customer) (Quote, error) {
	_, span := util.StartSpan(ctx, "Engine.ComputingTotal")
	defer span.End()

	quote, err := e.Quote(cust)
	if err != nil {
		return Quote{}, err
	}

	if quote.Discount.Sign() > 0 {
		util.DiscountsAppliedTotal.Inc()
	}

	e.logger.Info("Checkout quoted",
		zap.String("customer", cust.Name()),
		zap.String("subtotal", quote.Subtotal.StringFixed(2)),
		zap.String("discount", quote.Discount.StringFixed(2)),
		zap.String("total", quote.Total.StringFixed(2)))

	return quote, nil
}

// collectPayments loops until the outstanding balance is settled. A charge
// rejected for insufficient funds keeps the balance intact and re-prompts;
// cancel and invalid selections abort the loop. Charges already applied in
// earlier iterations stay applied on abort.
func (e *Engine) collectPayments(ctx context.Context, cust *customer.Customer, collector Collector, total decimal.Decimal) ([]models.PaymentRecord, error) {
	_, span := util.StartSpan(ctx, "Engine.CollectingPayment")
	defer span.End()

	remaining := total
	var records []models.PaymentRecord

	for remaining.GreaterThan(e.policy.SettleEpsilon) {
		sel, err := collector.NextPayment(remaining)
		if err != nil {
			return records, fmt.Errorf("collect payment: %w", err)
		}

		inst, err := cust.Instrument(sel.Index)
		if err != nil {
			return records, err
		}

		if sel.Amount.Sign() <= 0 || sel.Amount.GreaterThan(remaining) {
			return records, fmt.Errorf("amount %s with %s remaining: %w",
				sel.Amount.StringFixed(2), remaining.StringFixed(2), apperr.ErrInvalidPaymentAmount)
		}

		util.PaymentAttemptsTotal.Inc()
		if err := inst.Charge(sel.Amount); err != nil {
			if errors.Is(err, apperr.ErrInsufficientFunds) {
				util.PaymentFailedTotal.WithLabelValues(apperr.Kind(err)).Inc()
				e.logger.Warn("Charge declined",
					zap.String("instrument", inst.Describe()),
					zap.String("amount", sel.Amount.StringFixed(2)),
					zap.Error(err))
				collector.ChargeFailed(inst.Describe(), sel.Amount, err)
				continue
			}
			util.PaymentFailedTotal.WithLabelValues(apperr.Kind(err)).Inc()
			return records, err
		}
		util.PaymentSuccessTotal.Inc()

		record := models.PaymentRecord{
			Instrument: inst.Describe(),
			Kind:       inst.Kind(),
			Amount:     sel.Amount,
		}
		records = append(records, record)
		remaining = remaining.Sub(sel.Amount)

		e.logger.Info("Charge applied",
			zap.String("instrument", record.Instrument),
			zap.String("amount", record.Amount.StringFixed(2)),
			zap.String("remaining", remaining.StringFixed(2)))
		collector.ChargeApplied(record, remaining)
	}

	return records, nil
}

// commitStock deducts every cart line from the catalog. A failure here is
// terminal for the checkout: instruments have already been charged and
// lines committed before the failing one keep their decrement.
func (e *Engine) commitStock(ctx context.Context, lines []models.CartLine) error {
	_, span := util.StartSpan(ctx, "Engine.CommittingStock")
	defer span.End()

	for _, line := range lines {
		p, err := e.catalog.Get(line.ProductID)
		if err != nil {
			util.StockCommitsFailedTotal.WithLabelValues(apperr.Kind(err)).Inc()
			return fmt.Errorf("commit stock: %w", err)
		}
		if err := p.DecreaseStock(line.Quantity); err != nil {
			util.StockCommitsFailedTotal.WithLabelValues(apperr.Kind(err)).Inc()
			e.logger.Error("Stock commit failed after settlement",
				zap.String("product_id", line.ProductID),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
			return fmt.Errorf("commit stock: %w", err)
		}
	}
	return nil
}

// archive snapshots the cart lines, records the order and clears the cart.
func (e *Engine) archive(ctx context.Context, cust *customer.Customer, lines []models.CartLine, total decimal.Decimal, payments []models.PaymentRecord) (*models.Order, error) {
	_, span := util.StartSpan(ctx, "Engine.Archiving")
	defer span.End()

	snapshot := make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		p, err := e.catalog.Get(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("archive order: %w", err)
		}
		snapshot = append(snapshot, models.OrderLine{
			ProductID: p.ID(),
			Name:      p.Name(),
			UnitPrice: p.Price(),
			Quantity:  line.Quantity,
		})
	}

	order := models.Order{
		ID:        uuid.New().String(),
		Lines:     snapshot,
		TotalPaid: total,
		Payments:  payments,
		CreatedAt: time.Now(),
	}

	cust.History.Append(order)
	cust.Cart.Clear()

	return &order, nil
}
