package repository

import (
	"context"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerPaymentRepository defines access to the customer payment ledger.
// Payments and allocations are append-only.
type CustomerPaymentRepository interface {
	// Create persists the payment together with any attached allocations
	Create(ctx context.Context, payment *entity.CustomerPayment) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerPayment, error)
	// SumAllocationsBySale totals the allocations applied to a sale across all
	// customer payments
	SumAllocationsBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error)
}
