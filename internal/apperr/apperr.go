package apperr

import "errors"

// Validation errors: bad construction input.
var (
	ErrInvalidPrice      = errors.New("price must be non-negative")
	ErrInvalidStock      = errors.New("stock must be non-negative")
	ErrInvalidCategory   = errors.New("unknown product category")
	ErrInvalidInstrument = errors.New("invalid payment instrument")
	ErrEmptyName         = errors.New("name cannot be empty")
)

// Domain errors: recoverable at the interaction-loop boundary.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrProductNotFound      = errors.New("product not found")
	ErrDuplicateID          = errors.New("product id already exists")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrInvalidIndex         = errors.New("invalid payment instrument index")
	ErrCheckoutCancelled    = errors.New("checkout cancelled")
)

// Authorization errors.
var (
	ErrAdminRequired = errors.New("admin privileges required")
)

// Kind maps an error to a stable label for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"

	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"

	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"

	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"

	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"

	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"

	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"

	case errors.Is(err, ErrInvalidPaymentAmount):
		return "invalid_payment_amount"

	case errors.Is(err, ErrInvalidIndex):
		return "invalid_index"

	case errors.Is(err, ErrCheckoutCancelled):
		return "cancelled"

	case errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidStock),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidInstrument),
		errors.Is(err, ErrEmptyName):
		return "validation"

	case errors.Is(err, ErrAdminRequired):
		return "admin_required"

	default:
		return "internal"
	}
}
