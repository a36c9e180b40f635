package service

import (
	"context"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/dmelo/balcao-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService applies real-money customer payments against outstanding
// store-credit debt, oldest sale first.
type PaymentService struct {
	tx           repository.TxManager
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	paymentRepo  repository.CustomerPaymentRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	tx repository.TxManager,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.CustomerPaymentRepository,
) *PaymentService {
	return &PaymentService{
		tx:           tx,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
	}
}

// CreateCustomerPaymentInput represents the customer payment input
type CreateCustomerPaymentInput struct {
	CustomerID uuid.UUID
	Amount     decimal.Decimal
	Method     enum.PaymentMethod
	Notes      *string
}

// AllocationResult is one slice of a payment applied to a sale, in the order
// the allocation walk produced it
type AllocationResult struct {
	SaleID uuid.UUID       `json:"sale_id"`
	Amount decimal.Decimal `json:"amount"`
}

// CustomerPaymentResult is the outcome of recording a customer payment.
// Remaining is the portion that exceeded the customer's total debt; it stays
// unallocated rather than being refunded or carried forward.
type CustomerPaymentResult struct {
	Payment     *entity.CustomerPayment `json:"payment"`
	Allocations []AllocationResult      `json:"allocations"`
	Remaining   decimal.Decimal         `json:"remaining"`
}

// CreateCustomerPayment records a payment and allocates it FIFO against the
// customer's sales with outstanding store credit. The whole operation is one
// transaction: if the customer has no outstanding balance nothing is written.
func (s *PaymentService) CreateCustomerPayment(ctx context.Context, input *CreateCustomerPaymentInput) (*CustomerPaymentResult, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount
	}
	if !input.Method.Valid() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}

	var result *CustomerPaymentResult

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewCustomerNotFound(input.CustomerID)
		}

		// Oldest first; identical timestamps break ties by id so the
		// allocation order is deterministic.
		sales, err := s.saleRepo.ListByCustomer(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		outstanding := make([]decimal.Decimal, len(sales))
		totalOutstanding := decimal.Zero
		for i := range sales {
			remaining, err := saleOutstandingCredit(ctx, s.paymentRepo, &sales[i])
			if err != nil {
				return err
			}
			outstanding[i] = remaining
			if remaining.IsPositive() {
				totalOutstanding = totalOutstanding.Add(remaining)
			}
		}

		// Checked before any write so a rejected payment leaves no trace
		if totalOutstanding.LessThanOrEqual(decimal.Zero) {
			return apperror.ErrNoOutstandingBalance
		}

		payment := &entity.CustomerPayment{
			CustomerID: customer.ID,
			Method:     input.Method,
			Amount:     input.Amount,
			Notes:      input.Notes,
		}

		remainingPayment := input.Amount
		allocations := make([]AllocationResult, 0, len(sales))
		for i := range sales {
			if !remainingPayment.IsPositive() {
				break
			}
			if !outstanding[i].IsPositive() {
				continue
			}

			allocated := decimal.Min(remainingPayment, outstanding[i])
			payment.Allocations = append(payment.Allocations, entity.CustomerPaymentAllocation{
				SaleID: sales[i].ID,
				Amount: allocated,
			})
			allocations = append(allocations, AllocationResult{
				SaleID: sales[i].ID,
				Amount: allocated,
			})
			remainingPayment = remainingPayment.Sub(allocated)
		}

		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		result = &CustomerPaymentResult{
			Payment:     payment,
			Allocations: allocations,
			Remaining:   remainingPayment,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListCustomerPayments returns a customer's payments, newest first
func (s *PaymentService) ListCustomerPayments(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerPayment, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewCustomerNotFound(customerID)
	}
	return s.paymentRepo.ListByCustomer(ctx, customerID)
}

// OutstandingCredit computes the customer's total unsettled store-credit debt
func (s *PaymentService) OutstandingCredit(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if customer == nil {
		return decimal.Zero, apperror.NewCustomerNotFound(customerID)
	}

	sales, err := s.saleRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range sales {
		remaining, err := saleOutstandingCredit(ctx, s.paymentRepo, &sales[i])
		if err != nil {
			return decimal.Zero, err
		}
		if remaining.IsPositive() {
			total = total.Add(remaining)
		}
	}
	return total, nil
}

// saleOutstandingCredit returns the sale's store-credit total minus everything
// already allocated to it across all customer payments. Never negative in a
// consistent ledger, but the caller still guards on sign.
func saleOutstandingCredit(ctx context.Context, paymentRepo repository.CustomerPaymentRepository, sale *entity.Sale) (decimal.Decimal, error) {
	creditTotal := sale.StoreCreditTotal()
	if creditTotal.IsZero() {
		return decimal.Zero, nil
	}

	allocated, err := paymentRepo.SumAllocationsBySale(ctx, sale.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return creditTotal.Sub(allocated), nil
}
