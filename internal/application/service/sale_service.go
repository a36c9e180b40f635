package service

import (
	"context"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/dmelo/balcao-api/pkg/apperror"
	"github.com/dmelo/balcao-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// paymentTolerance is the rounding slack allowed between a sale's total and
// the sum of its payments (currency minor unit).
var paymentTolerance = decimal.New(1, -2)

// SaleService owns the sale state machine: sales are created completed and can
// only move to cancelled, which is terminal.
type SaleService struct {
	tx           repository.TxManager
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	guard        *StockGuard
}

// NewSaleService creates a new sale service
func NewSaleService(
	tx repository.TxManager,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	guard *StockGuard,
) *SaleService {
	return &SaleService{
		tx:           tx,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		guard:        guard,
	}
}

// SaleItemInput represents a line item in a sale request. A nil UnitPrice
// falls back to the product's current sale price.
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *decimal.Decimal
}

// SalePaymentInput represents one payment in a sale request
type SalePaymentInput struct {
	Method enum.PaymentMethod
	Amount decimal.Decimal
	Notes  *string
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	CustomerID *uuid.UUID
	Items      []SaleItemInput
	Payments   []SalePaymentInput
	Notes      *string
}

// UpdateSaleInput represents a partial sale update. Nil slices leave the item
// or payment set untouched; non-nil slices fully replace it.
type UpdateSaleInput struct {
	CustomerID *uuid.UUID
	Status     *enum.SaleStatus
	Notes      *string
	Items      []SaleItemInput
	Payments   []SalePaymentInput
}

// CreateSale creates a sale with its items and payments in one transaction.
// The stock guard runs against the staged state before commit; any failure
// rolls the whole sale back.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	var saleID uuid.UUID

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if input.CustomerID != nil {
			customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewCustomerNotFound(*input.CustomerID)
			}
		}

		sale := &entity.Sale{
			CustomerID: input.CustomerID,
			Status:     enum.SaleStatusCompleted,
			Notes:      input.Notes,
		}

		items, totalAmount, err := s.buildItems(ctx, input.Items)
		if err != nil {
			return err
		}

		payments, totalPayments, err := buildPayments(input.Payments)
		if err != nil {
			return err
		}

		if err := validatePaymentTotals(totalAmount, totalPayments); err != nil {
			return err
		}

		sale.Items = items
		sale.Payments = payments
		sale.TotalAmount = totalAmount

		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		// Pre-commit invariant check against the transaction's final state
		if err := s.guard.ValidateSale(ctx, sale); err != nil {
			return err
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// GetSale retrieves a sale with items, payments and customer loaded
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewSaleNotFound(id)
	}
	return sale, nil
}

// ListSales lists sales with filtering, newest first
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// UpdateSale applies a partial update. Items and payments, when provided,
// replace the existing sets entirely and the payment/total reconciliation is
// re-validated. A cancelled sale only accepts a no-op status confirmation.
func (s *SaleService) UpdateSale(ctx context.Context, id uuid.UUID, input *UpdateSaleInput) (*entity.Sale, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetWithDetails(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewSaleNotFound(id)
		}

		if sale.Status == enum.SaleStatusCancelled {
			if input.Status != nil && *input.Status != enum.SaleStatusCancelled {
				return apperror.ErrSaleCancelled
			}
		}

		if input.CustomerID != nil {
			if *input.CustomerID != uuid.Nil {
				customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
				if err != nil {
					return err
				}
				if customer == nil {
					return apperror.NewCustomerNotFound(*input.CustomerID)
				}
				sale.CustomerID = input.CustomerID
			} else {
				sale.CustomerID = nil
			}
		}

		if input.Status != nil {
			if !input.Status.Valid() {
				return apperror.NewBadRequestError("Invalid sale status")
			}
			sale.Status = *input.Status
		}

		if input.Notes != nil {
			sale.Notes = input.Notes
		}

		totalAmount := sale.TotalAmount
		if input.Items != nil {
			if sale.Status == enum.SaleStatusCancelled {
				return apperror.ErrSaleCancelled
			}
			items, newTotal, err := s.buildItems(ctx, input.Items)
			if err != nil {
				return err
			}
			if err := s.saleRepo.ReplaceItems(ctx, sale.ID, items); err != nil {
				return err
			}
			sale.Items = items
			totalAmount = newTotal
			sale.TotalAmount = newTotal
		}

		totalPayments := decimal.Zero
		if input.Payments != nil {
			if sale.Status == enum.SaleStatusCancelled {
				return apperror.ErrSaleCancelled
			}
			payments, newPaymentsTotal, err := buildPayments(input.Payments)
			if err != nil {
				return err
			}
			if err := s.saleRepo.ReplacePayments(ctx, sale.ID, payments); err != nil {
				return err
			}
			sale.Payments = payments
			totalPayments = newPaymentsTotal
		} else {
			totalPayments = sale.PaymentsTotal()
		}

		if err := validatePaymentTotals(totalAmount, totalPayments); err != nil {
			return err
		}

		if err := s.saleRepo.Update(ctx, sale); err != nil {
			return err
		}

		return s.guard.ValidateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, id)
}

// CancelSale marks the sale cancelled. Cancelling an already cancelled sale
// is a no-op returning the sale unchanged.
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewSaleNotFound(id)
		}
		if sale.Status == enum.SaleStatusCancelled {
			return nil
		}

		sale.Status = enum.SaleStatusCancelled
		return s.saleRepo.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, id)
}

// buildItems resolves products and prices for the requested line items and
// returns them with the accumulated sale total
func (s *SaleService) buildItems(ctx context.Context, inputs []SaleItemInput) ([]entity.SaleItem, decimal.Decimal, error) {
	items := make([]entity.SaleItem, 0, len(inputs))
	total := decimal.Zero

	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, decimal.Zero, apperror.ErrInvalidQuantity
		}

		product, err := s.productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if product == nil {
			return nil, decimal.Zero, apperror.NewProductNotFound(in.ProductID)
		}

		unitPrice := product.SalePrice
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))

		items = append(items, entity.SaleItem{
			ProductID: product.ID,
			Quantity:  in.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return items, total, nil
}

// buildPayments validates payment inputs and returns them with their sum
func buildPayments(inputs []SalePaymentInput) ([]entity.SalePayment, decimal.Decimal, error) {
	payments := make([]entity.SalePayment, 0, len(inputs))
	total := decimal.Zero

	for _, in := range inputs {
		if !in.Method.Valid() {
			return nil, decimal.Zero, apperror.NewBadRequestError("Invalid payment method")
		}
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, decimal.Zero, apperror.ErrInvalidAmount
		}
		payments = append(payments, entity.SalePayment{
			Method: in.Method,
			Amount: in.Amount,
			Notes:  in.Notes,
		})
		total = total.Add(in.Amount)
	}

	return payments, total, nil
}

// validatePaymentTotals enforces the payment/total reconciliation within the
// 0.01 rounding tolerance
func validatePaymentTotals(totalAmount, totalPayments decimal.Decimal) error {
	if totalAmount.Sub(totalPayments).Abs().GreaterThan(paymentTolerance) {
		return &apperror.PaymentMismatchError{
			TotalAmount:   totalAmount,
			TotalPayments: totalPayments,
		}
	}
	return nil
}
