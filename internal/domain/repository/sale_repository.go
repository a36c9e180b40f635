package repository

import (
	"context"
	"time"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleFilterParams represents sale listing filters
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	CustomerID *uuid.UUID
	Status     *enum.SaleStatus
	StartDate  *time.Time
	EndDate    *time.Time
}

// PaymentMethodTotal is an aggregate of sale payments grouped by method
type PaymentMethodTotal struct {
	Method enum.PaymentMethod `json:"method"`
	Amount decimal.Decimal    `json:"amount"`
}

// SaleRepository defines sale data access. Writes are expected to run inside a
// TxManager transaction.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetWithDetails loads the sale with items (and their products), payments
	// and customer attached
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListByCustomer returns all sales for a customer ordered oldest first
	// (created_at ASC, id ASC) with payments preloaded. The stable secondary
	// key keeps store-credit allocation deterministic.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Sale, error)
	// ReplaceItems deletes the sale's items and inserts the given set
	ReplaceItems(ctx context.Context, saleID uuid.UUID, items []entity.SaleItem) error
	// ReplacePayments deletes the sale's payments and inserts the given set
	ReplacePayments(ctx context.Context, saleID uuid.UUID, payments []entity.SalePayment) error
	// SumPaymentsByMethod aggregates payment amounts by method for sales whose
	// created_at falls within [start, end]; a nil end means "until now"
	SumPaymentsByMethod(ctx context.Context, start time.Time, end *time.Time) ([]PaymentMethodTotal, error)
}
