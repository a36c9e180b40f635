package apperror

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain error kinds raised by the sales and reconciliation core. Each aborts
// the enclosing transaction; the presentation layer translates them via
// GetAppError.
var (
	// ErrInvalidAmount is returned when a monetary amount is zero or negative
	// where a positive value is required
	ErrInvalidAmount = &AppError{Code: http.StatusUnprocessableEntity, Message: "Amount must be greater than zero"}

	// ErrInvalidQuantity is returned when a sale item quantity is not positive
	ErrInvalidQuantity = &AppError{Code: http.StatusUnprocessableEntity, Message: "Quantity must be greater than zero"}

	// ErrSaleCancelled is returned when items or payments of a cancelled sale
	// are mutated
	ErrSaleCancelled = &AppError{Code: http.StatusConflict, Message: "Cannot modify a cancelled sale"}

	// ErrNoOutstandingBalance is returned when a customer payment is submitted
	// with no store-credit debt to allocate against
	ErrNoOutstandingBalance = &AppError{Code: http.StatusUnprocessableEntity, Message: "Customer has no outstanding store credit"}
)

// NotFoundError reports a failed referential lookup
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewProductNotFound creates a product lookup error
func NewProductNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: "Product", ID: id}
}

// NewCustomerNotFound creates a customer lookup error
func NewCustomerNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: "Customer", ID: id}
}

// NewSaleNotFound creates a sale lookup error
func NewSaleNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: "Sale", ID: id}
}

// NewCashboxNotFound creates a cashbox lookup error
func NewCashboxNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: "Cashbox", ID: id}
}

// StockInsufficientError reports a commit-time stock check failure
type StockInsufficientError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// PaymentMismatchError reports that payments do not reconcile with the sale
// total within the 0.01 tolerance
type PaymentMismatchError struct {
	TotalAmount   decimal.Decimal
	TotalPayments decimal.Decimal
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("payments total %s does not match sale total %s",
		e.TotalPayments.StringFixed(2), e.TotalAmount.StringFixed(2))
}

// CashboxStateError reports an open/close attempted out of order
type CashboxStateError struct {
	Message string
}

func (e *CashboxStateError) Error() string {
	return e.Message
}
