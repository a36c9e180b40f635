package repository

import (
	"context"
	"time"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/pkg/pagination"
	"github.com/google/uuid"
)

// FinancialEntryFilterParams represents financial entry listing filters
type FinancialEntryFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.EntryType
}

// FinancialEntryRepository defines financial entry data access
type FinancialEntryRepository interface {
	Create(ctx context.Context, entry *entity.FinancialEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FinancialEntry, error)
	List(ctx context.Context, params *FinancialEntryFilterParams) ([]entity.FinancialEntry, int64, error)
	// ListByCashboxBetween returns entries attributed to the cashbox within
	// [start, end] in ascending time order; a nil end means "until now"
	ListByCashboxBetween(ctx context.Context, cashboxID uuid.UUID, start time.Time, end *time.Time) ([]entity.FinancialEntry, error)
	Update(ctx context.Context, entry *entity.FinancialEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
