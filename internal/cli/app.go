// Package cli is the presentation and input layer: a sequential menu loop
// over the checkout core. The core hands back structured results; all text
// rendering lives here.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-service/internal/admin"
	"shop-service/internal/apperr"
	"shop-service/internal/catalog"
	"shop-service/internal/checkout"
	"shop-service/internal/customer"
	"shop-service/internal/models"
	"shop-service/internal/payment"
	"shop-service/internal/util"
)

// App drives the interactive session for one customer.
type App struct {
	in      *bufio.Scanner
	out     io.Writer
	catalog *catalog.Catalog
	cust    *customer.Customer
	engine  *checkout.Engine
	session *admin.Session
	logger  *zap.Logger
}

// NewApp wires the menu loop over its collaborators. The scanner is shared
// with the caller so lines buffered before the loop starts are not lost.
func NewApp(in *bufio.Scanner, out io.Writer, cat *catalog.Catalog, cust *customer.Customer, engine *checkout.Engine, session *admin.Session) *App {
	return &App{
		in:      in,
		out:     out,
		catalog: cat,
		cust:    cust,
		engine:  engine,
		session: session,
		logger:  util.GetLogger(),
	}
}

const menu = `
Menu:
1. View Products
2. Add to Cart
3. Remove from Cart
4. View Cart
5. Checkout
6. Admin Login
7. Add Product (Admin Only)
8. Admin Logout
9. Order History
10. Manage Payment Methods
11. Exit`

// Run loops until the customer exits, input ends or the context is done.
// Every domain error is reported and control returns to the menu.
func (a *App) Run(ctx context.Context) {
	a.logger.Info("Interactive session started", zap.String("customer", a.cust.Name()))

	fmt.Fprintln(a.out, "======================================")
	fmt.Fprintf(a.out, " Welcome, %s!\n", a.cust.Name())
	fmt.Fprintln(a.out, "======================================")

	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintln(a.out, menu)
		choice, err := a.promptInt("Choose an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintln(a.out, "Invalid input. Please enter a number.")
			continue
		}

		done, err := a.dispatch(ctx, choice)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
		if done {
			break
		}
	}

	fmt.Fprintln(a.out, "======================================")
	fmt.Fprintln(a.out, " Thank you for shopping with us!")
	fmt.Fprintln(a.out, "======================================")
}

func (a *App) dispatch(ctx context.Context, choice int) (done bool, err error) {
	switch choice {
	case 1:
		a.viewProducts()
	case 2:
		err = a.addToCart()
	case 3:
		err = a.removeFromCart()
	case 4:
		a.viewCart()
	case 5:
		err = a.checkout(ctx)
	case 6:
		err = a.adminLogin()
	case 7:
		err = a.addProduct()
	case 8:
		a.adminLogout()
	case 9:
		a.orderHistory()
	case 10:
		err = a.managePayments()
	case 11:
		return true, nil
	default:
		fmt.Fprintln(a.out, "Invalid choice.")
	}
	return false, err
}

func (a *App) viewProducts() {
	fmt.Fprintln(a.out, "Available Products:")
	for _, p := range a.catalog.List() {
		fmt.Fprintln(a.out, renderProduct(p))
	}
}

func (a *App) addToCart() error {
	id, err := a.promptLine("Enter Product ID to add: ")
	if err != nil {
		return err
	}
	p, err := a.catalog.Get(id)
	if err != nil {
		return err
	}
	if !p.Available() {
		return fmt.Errorf("%s is sold out: %w", p.Name(), apperr.ErrInsufficientStock)
	}

	qty, err := a.promptInt("Enter quantity: ")
	if err != nil {
		return err
	}
	if err := a.cust.Cart.AddLine(p.ID(), qty); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Added to cart.")
	return nil
}

func (a *App) removeFromCart() error {
	id, err := a.promptLine("Enter Product ID to remove from cart: ")
	if err != nil {
		return err
	}
	a.cust.Cart.RemoveLine(id)
	fmt.Fprintln(a.out, "Removed from cart.")
	return nil
}

func (a *App) viewCart() {
	lines := a.cust.Cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "Cart is empty.")
		return
	}
	fmt.Fprintln(a.out, "Your Cart:")
	for _, line := range lines {
		fmt.Fprintln(a.out, renderCartLine(a.catalog, line))
	}
	if total, err := a.cust.Cart.Total(); err == nil {
		fmt.Fprintf(a.out, "Subtotal: $%s\n", total.StringFixed(2))
	}
}

func (a *App) checkout(ctx context.Context) error {
	quote, err := a.engine.Quote(a.cust)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Subtotal: $%s\n", quote.Subtotal.StringFixed(2))
	if quote.Discount.Sign() > 0 {
		fmt.Fprintf(a.out, "Discount: -$%s\n", quote.Discount.StringFixed(2))
	}
	fmt.Fprintf(a.out, "Total after discount: $%s\n", quote.Total.StringFixed(2))

	fmt.Fprintln(a.out, "\nAvailable Payment Methods:")
	a.viewInstruments()

	order, err := a.engine.Checkout(ctx, a.cust, &interactiveCollector{app: a})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nPayment Method Balances After Checkout:")
	a.viewInstruments()
	for _, line := range order.Lines {
		if p, err := a.catalog.Get(line.ProductID); err == nil && !p.Available() {
			fmt.Fprintf(a.out, "%s is now SOLD OUT!\n", p.Name())
		}
	}
	fmt.Fprintf(a.out, "Order placed! Thank you, %s\n", a.cust.Name())
	return nil
}

func (a *App) adminLogin() error {
	if a.session.LoggedIn() {
		fmt.Fprintln(a.out, "Already logged in as admin.")
		return nil
	}
	user, err := a.promptLine("Admin username: ")
	if err != nil {
		return err
	}
	pass, err := a.promptLine("Admin password: ")
	if err != nil {
		return err
	}
	if a.session.Login(user, pass) {
		fmt.Fprintln(a.out, "Admin login successful.")
	} else {
		fmt.Fprintln(a.out, "Invalid admin credentials.")
	}
	return nil
}

func (a *App) adminLogout() {
	if a.session.LoggedIn() {
		a.session.Logout()
		fmt.Fprintln(a.out, "Admin logged out.")
	} else {
		fmt.Fprintln(a.out, "Not logged in as admin.")
	}
}

func (a *App) addProduct() error {
	if err := a.session.Require(); err != nil {
		return err
	}

	kind, err := a.promptInt("Enter type (1=Electronics, 2=Clothing): ")
	if err != nil {
		return err
	}
	var category models.Category
	switch kind {
	case 1:
		category = models.CategoryElectronics
	case 2:
		category = models.CategoryClothing
	default:
		return apperr.ErrInvalidCategory
	}

	id, err := a.promptLine("Enter Product ID: ")
	if err != nil {
		return err
	}
	name, err := a.promptLine("Enter Name: ")
	if err != nil {
		return err
	}
	price, err := a.promptDecimal("Enter Price: ")
	if err != nil {
		return err
	}
	stock, err := a.promptInt("Enter Stock Quantity: ")
	if err != nil {
		return err
	}
	attr, err := a.promptLine(fmt.Sprintf("Enter %s: ", category.AttributeLabel()))
	if err != nil {
		return err
	}

	if _, err := a.catalog.CreateProduct(id, name, price, stock, category, attr); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Product added.")
	return nil
}

func (a *App) orderHistory() {
	orders := a.cust.History.List()
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders yet.")
		return
	}
	fmt.Fprintf(a.out, "Order History for %s:\n", a.cust.Name())
	for _, order := range orders {
		fmt.Fprintln(a.out, renderOrder(order))
	}
}

func (a *App) viewInstruments() {
	instruments := a.cust.Instruments()
	if len(instruments) == 0 {
		fmt.Fprintln(a.out, "No payment methods registered.")
		return
	}
	for i, inst := range instruments {
		fmt.Fprintln(a.out, renderInstrument(i+1, inst))
	}
}

const paymentMenu = `
Payment Method Management:
1. View Payment Methods and Balances
2. Add Payment Method
3. Remove Payment Method
4. Add Funds to Payment Method
5. Back`

func (a *App) managePayments() error {
	fmt.Fprintln(a.out, paymentMenu)
	choice, err := a.promptInt("Choose an option: ")
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		a.viewInstruments()
	case 2:
		return a.addInstrument()
	case 3:
		a.viewInstruments()
		index, err := a.promptInt("Enter index to remove: ")
		if err != nil {
			return err
		}
		if err := a.cust.RemoveInstrument(index); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Payment method removed.")
	case 4:
		return a.addFunds()
	case 5:
	default:
		fmt.Fprintln(a.out, "Invalid choice.")
	}
	return nil
}

func (a *App) addInstrument() error {
	kind, err := a.promptInt("Enter type (1=Credit Card, 2=Wallet): ")
	if err != nil {
		return err
	}

	switch kind {
	case 1:
		number, err := a.promptLine("Enter 16-digit card number: ")
		if err != nil {
			return err
		}
		balance, err := a.promptDecimal("Enter available balance: ")
		if err != nil {
			return err
		}
		card, err := payment.NewCard(number, balance)
		if err != nil {
			return err
		}
		a.cust.AddInstrument(card)
		fmt.Fprintln(a.out, "Credit Card added.")
	case 2:
		email, err := a.promptLine("Enter wallet email: ")
		if err != nil {
			return err
		}
		balance, err := a.promptDecimal("Enter available balance: ")
		if err != nil {
			return err
		}
		wallet, err := payment.NewWallet(email, balance)
		if err != nil {
			return err
		}
		a.cust.AddInstrument(wallet)
		fmt.Fprintln(a.out, "Wallet added.")
	default:
		return fmt.Errorf("payment method type %d: %w", kind, apperr.ErrInvalidInstrument)
	}
	return nil
}

func (a *App) addFunds() error {
	a.viewInstruments()
	index, err := a.promptInt("Select payment method to add funds (index) or 0 to cancel: ")
	if err != nil {
		return err
	}
	if index == 0 {
		return nil
	}
	inst, err := a.cust.Instrument(index)
	if err != nil {
		return err
	}
	amount, err := a.promptDecimal("Enter amount to add: ")
	if err != nil {
		return err
	}
	if err := inst.Credit(amount); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added $%s to %s. New balance: $%s\n",
		amount.StringFixed(2), inst.Describe(), inst.Balance().StringFixed(2))
	return nil
}

// interactiveCollector implements checkout.Collector with terminal prompts.
type interactiveCollector struct {
	app *App
}

func (c *interactiveCollector) NextPayment(remaining decimal.Decimal) (checkout.Selection, error) {
	a := c.app

	index, err := a.promptInt("Select payment method (index) or 0 to cancel: ")
	if err != nil {
		return checkout.Selection{}, apperr.ErrCheckoutCancelled
	}
	if index == 0 {
		return checkout.Selection{}, apperr.ErrCheckoutCancelled
	}

	if inst, err := a.cust.Instrument(index); err == nil {
		fmt.Fprintf(a.out, "Selected %s (Balance: $%s)\n", inst.Describe(), inst.Balance().StringFixed(2))
	}

	amount, err := a.promptDecimal(fmt.Sprintf("Enter amount to pay (max $%s): ", remaining.StringFixed(2)))
	if err != nil {
		return checkout.Selection{}, apperr.ErrCheckoutCancelled
	}

	return checkout.Selection{Index: index, Amount: amount}, nil
}

func (c *interactiveCollector) ChargeFailed(instrument string, amount decimal.Decimal, err error) {
	fmt.Fprintf(c.app.out, "Payment failed: %v\n", err)
}

func (c *interactiveCollector) ChargeApplied(record models.PaymentRecord, remaining decimal.Decimal) {
	fmt.Fprintf(c.app.out, "Paid $%s using %s.\n", record.Amount.StringFixed(2), record.Instrument)
	if remaining.Sign() > 0 {
		fmt.Fprintf(c.app.out, "Remaining balance to pay: $%s\n", remaining.StringFixed(2))
	}
}

func (a *App) promptLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(a.in.Text()), nil
}

func (a *App) promptInt(prompt string) (int, error) {
	raw, err := a.promptLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", raw)
	}
	return n, nil
}

func (a *App) promptDecimal(prompt string) (decimal.Decimal, error) {
	raw, err := a.promptLine(prompt)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expected an amount, got %q", raw)
	}
	return d, nil
}
