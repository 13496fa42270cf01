// Package payment implements the payment instrument capability: a small
// polymorphic set of charge/credit operations over card and wallet variants.
package payment

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/shopspring/decimal"

	"shop-service/internal/apperr"
)

// Instrument kinds, used for payment records and metrics labels.
const (
	KindCard   = "card"
	KindWallet = "wallet"
)

// Instrument is a payment method with a non-negative balance. Charge and
// Credit are the only balance mutators and each is atomic with respect to
// the single instrument.
type Instrument interface {
	// Charge deducts amount from the balance. It fails with
	// apperr.ErrInsufficientFunds when amount exceeds the balance and with
	// apperr.ErrInvalidAmount when amount is not positive.
	Charge(amount decimal.Decimal) error

	// Credit adds amount to the balance. It fails with
	// apperr.ErrInvalidAmount when amount is not positive.
	Credit(amount decimal.Decimal) error

	// Describe returns a masked human-oriented descriptor.
	Describe() string

	// Kind returns the instrument kind constant.
	Kind() string

	// Balance returns the current balance.
	Balance() decimal.Decimal
}

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	walletIDPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// balanceAccount holds the mutable balance shared by all variants.
type balanceAccount struct {
	mu      sync.Mutex
	balance decimal.Decimal
}

func (a *balanceAccount) charge(amount decimal.Decimal, desc string) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("charge on %s: %w", desc, apperr.ErrInvalidAmount)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if amount.GreaterThan(a.balance) {
		return fmt.Errorf("charge on %s: %w", desc, apperr.ErrInsufficientFunds)
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

func (a *balanceAccount) credit(amount decimal.Decimal, desc string) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("credit on %s: %w", desc, apperr.ErrInvalidAmount)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = a.balance.Add(amount)
	return nil
}

func (a *balanceAccount) current() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Card is a credit card instrument identified by a 16-digit number.
type Card struct {
	number string
	balanceAccount
}

// NewCard validates the card number and opening balance.
func NewCard(number string, balance decimal.Decimal) (*Card, error) {
	if !cardNumberPattern.MatchString(number) {
		return nil, fmt.Errorf("card number must be exactly 16 digits: %w", apperr.ErrInvalidInstrument)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("card balance cannot be negative: %w", apperr.ErrInvalidInstrument)
	}

	c := &Card{number: number}
	c.balance = balance
	return c, nil
}

func (c *Card) Charge(amount decimal.Decimal) error {
	return c.charge(amount, c.Describe())
}

func (c *Card) Credit(amount decimal.Decimal) error {
	return c.credit(amount, c.Describe())
}

// Describe masks the card number down to its last four digits.
func (c *Card) Describe() string {
	return fmt.Sprintf("Credit Card ending in %s", c.number[len(c.number)-4:])
}

func (c *Card) Kind() string { return KindCard }

func (c *Card) Balance() decimal.Decimal { return c.current() }

// Wallet is an e-wallet instrument identified by an email-shaped id.
type Wallet struct {
	email string
	balanceAccount
}

// NewWallet validates the wallet id and opening balance.
func NewWallet(email string, balance decimal.Decimal) (*Wallet, error) {
	if !walletIDPattern.MatchString(email) {
		return nil, fmt.Errorf("wallet id must look like local@domain.tld: %w", apperr.ErrInvalidInstrument)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("wallet balance cannot be negative: %w", apperr.ErrInvalidInstrument)
	}

	w := &Wallet{email: email}
	w.balance = balance
	return w, nil
}

func (w *Wallet) Charge(amount decimal.Decimal) error {
	return w.charge(amount, w.Describe())
}

func (w *Wallet) Credit(amount decimal.Decimal) error {
	return w.credit(amount, w.Describe())
}

func (w *Wallet) Describe() string {
	return fmt.Sprintf("Wallet (%s)", w.email)
}

func (w *Wallet) Kind() string { return KindWallet }

func (w *Wallet) Balance() decimal.Decimal { return w.current() }
