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

// FinancialService manages manual income and expense entries
type FinancialService struct {
	entryRepo   repository.FinancialEntryRepository
	cashboxRepo repository.CashboxRepository
}

// NewFinancialService creates a new financial service
func NewFinancialService(entryRepo repository.FinancialEntryRepository, cashboxRepo repository.CashboxRepository) *FinancialService {
	return &FinancialService{entryRepo: entryRepo, cashboxRepo: cashboxRepo}
}

// CreateFinancialEntryInput represents the create entry input
type CreateFinancialEntryInput struct {
	Type      enum.EntryType
	Category  string
	Amount    decimal.Decimal
	Notes     *string
	CashboxID *uuid.UUID
}

// UpdateFinancialEntryInput represents a partial entry update
type UpdateFinancialEntryInput struct {
	Type     *enum.EntryType
	Category *string
	Amount   *decimal.Decimal
	Notes    *string
}

// CreateEntry records a manual financial entry, optionally attributed to a
// cashbox session
func (s *FinancialService) CreateEntry(ctx context.Context, input *CreateFinancialEntryInput) (*entity.FinancialEntry, error) {
	if !input.Type.Valid() {
		return nil, apperror.NewBadRequestError("Invalid entry type")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount
	}

	if input.CashboxID != nil {
		cashbox, err := s.cashboxRepo.GetByID(ctx, *input.CashboxID)
		if err != nil {
			return nil, err
		}
		if cashbox == nil {
			return nil, apperror.NewCashboxNotFound(*input.CashboxID)
		}
	}

	entry := &entity.FinancialEntry{
		Type:      input.Type,
		Category:  input.Category,
		Amount:    input.Amount,
		Notes:     input.Notes,
		CashboxID: input.CashboxID,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntry retrieves a financial entry by ID
func (s *FinancialService) GetEntry(ctx context.Context, id uuid.UUID) (*entity.FinancialEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &apperror.NotFoundError{Resource: "Financial entry", ID: id}
	}
	return entry, nil
}

// ListEntries lists entries, newest first, optionally filtered by type
func (s *FinancialService) ListEntries(ctx context.Context, params *repository.FinancialEntryFilterParams) (*pagination.PaginatedResult[entity.FinancialEntry], error) {
	entries, total, err := s.entryRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}

// UpdateEntry applies a partial update
func (s *FinancialService) UpdateEntry(ctx context.Context, id uuid.UUID, input *UpdateFinancialEntryInput) (*entity.FinancialEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &apperror.NotFoundError{Resource: "Financial entry", ID: id}
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, apperror.NewBadRequestError("Invalid entry type")
		}
		entry.Type = *input.Type
	}
	if input.Category != nil {
		entry.Category = *input.Category
	}
	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperror.ErrInvalidAmount
		}
		entry.Amount = *input.Amount
	}
	if input.Notes != nil {
		entry.Notes = input.Notes
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes a financial entry
func (s *FinancialService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return &apperror.NotFoundError{Resource: "Financial entry", ID: id}
	}
	return s.entryRepo.Delete(ctx, id)
}
