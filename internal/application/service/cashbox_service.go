package service

import (
	"context"
	"time"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/dmelo/balcao-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashboxService models the cash-drawer session lifecycle
// (created -> opened -> closed, each transition at most once) and computes
// the session's reconciliation report.
type CashboxService struct {
	tx          repository.TxManager
	cashboxRepo repository.CashboxRepository
	saleRepo    repository.SaleRepository
	entryRepo   repository.FinancialEntryRepository
	now         func() time.Time
}

// NewCashboxService creates a new cashbox service
func NewCashboxService(
	tx repository.TxManager,
	cashboxRepo repository.CashboxRepository,
	saleRepo repository.SaleRepository,
	entryRepo repository.FinancialEntryRepository,
) *CashboxService {
	return &CashboxService{
		tx:          tx,
		cashboxRepo: cashboxRepo,
		saleRepo:    saleRepo,
		entryRepo:   entryRepo,
		now:         time.Now,
	}
}

// CashboxReport summarizes a session: sale payments grouped by method,
// manual entries in time order, and the expected cash balance.
type CashboxReport struct {
	Cashbox      *entity.Cashbox                  `json:"cashbox"`
	Payments     []repository.PaymentMethodTotal  `json:"payments"`
	Entries      []entity.FinancialEntry          `json:"entries"`
	ExpectedCash decimal.Decimal                  `json:"expected_cash"`
}

// CreateCashbox creates a new cash-drawer session in its initial state
func (s *CashboxService) CreateCashbox(ctx context.Context, name string, initialAmount decimal.Decimal) (*entity.Cashbox, error) {
	if initialAmount.IsNegative() {
		return nil, apperror.NewBadRequestError("Initial amount cannot be negative")
	}

	cashbox := &entity.Cashbox{
		Name:          name,
		InitialAmount: initialAmount,
	}
	if err := s.cashboxRepo.Create(ctx, cashbox); err != nil {
		return nil, err
	}
	return cashbox, nil
}

// GetCashbox retrieves a cashbox by ID
func (s *CashboxService) GetCashbox(ctx context.Context, id uuid.UUID) (*entity.Cashbox, error) {
	cashbox, err := s.cashboxRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cashbox == nil {
		return nil, apperror.NewCashboxNotFound(id)
	}
	return cashbox, nil
}

// ListCashboxes lists sessions, newest first
func (s *CashboxService) ListCashboxes(ctx context.Context) ([]entity.Cashbox, error) {
	return s.cashboxRepo.List(ctx)
}

// OpenCashbox marks the session opened. A session can be opened only once.
func (s *CashboxService) OpenCashbox(ctx context.Context, id uuid.UUID) (*entity.Cashbox, error) {
	var cashbox *entity.Cashbox

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cb, err := s.cashboxRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cb == nil {
			return apperror.NewCashboxNotFound(id)
		}
		if cb.OpenedAt != nil {
			if cb.ClosedAt != nil {
				return &apperror.CashboxStateError{Message: "Cashbox session is already closed"}
			}
			return &apperror.CashboxStateError{Message: "Cashbox is already opened"}
		}

		now := s.now()
		cb.OpenedAt = &now
		if err := s.cashboxRepo.Update(ctx, cb); err != nil {
			return err
		}
		cashbox = cb
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cashbox, nil
}

// CloseCashbox closes an opened session, recording the counted amount
func (s *CashboxService) CloseCashbox(ctx context.Context, id uuid.UUID, closedAmount decimal.Decimal) (*entity.Cashbox, error) {
	var cashbox *entity.Cashbox

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cb, err := s.cashboxRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cb == nil {
			return apperror.NewCashboxNotFound(id)
		}
		if cb.OpenedAt == nil {
			return &apperror.CashboxStateError{Message: "Cashbox is not opened"}
		}
		if cb.ClosedAt != nil {
			return &apperror.CashboxStateError{Message: "Cashbox is already closed"}
		}

		now := s.now()
		cb.ClosedAt = &now
		cb.ClosedAmount = &closedAmount
		if err := s.cashboxRepo.Update(ctx, cb); err != nil {
			return err
		}
		cashbox = cb
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cashbox, nil
}

// Report computes the reconciliation report for the session window. For an
// open session the window is unbounded and the report reflects the state as
// of now; it can be re-run any number of times.
func (s *CashboxService) Report(ctx context.Context, id uuid.UUID) (*CashboxReport, error) {
	var report *CashboxReport

	// Read-only, but a transaction keeps payments and entries consistent
	// with each other while sales are being recorded.
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cb, err := s.cashboxRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cb == nil {
			return apperror.NewCashboxNotFound(id)
		}

		start := cb.CreatedAt
		if cb.OpenedAt != nil {
			start = *cb.OpenedAt
		}
		end := cb.ClosedAt

		payments, err := s.saleRepo.SumPaymentsByMethod(ctx, start, end)
		if err != nil {
			return err
		}

		entries, err := s.entryRepo.ListByCashboxBetween(ctx, cb.ID, start, end)
		if err != nil {
			return err
		}

		cashTotal := decimal.Zero
		for _, p := range payments {
			if p.Method == enum.PaymentMethodCash {
				cashTotal = p.Amount
				break
			}
		}

		income := decimal.Zero
		expense := decimal.Zero
		for _, e := range entries {
			switch e.Type {
			case enum.EntryTypeIncome:
				income = income.Add(e.Amount)
			case enum.EntryTypeExpense:
				expense = expense.Add(e.Amount)
			}
		}

		report = &CashboxReport{
			Cashbox:      cb,
			Payments:     payments,
			Entries:      entries,
			ExpectedCash: cb.InitialAmount.Add(cashTotal).Add(income).Sub(expense),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}
