package repository

import (
	"context"
	"time"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFilterParams represents product listing filters
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	LowStock   bool
}

// ProductRepository defines product data access
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// ListBetween returns all products created within the optional date window,
	// newest first. Used by the catalog report.
	ListBetween(ctx context.Context, from, to *time.Time) ([]entity.Product, error)
	// TotalSoldByProduct sums line totals of completed sales grouped by product
	TotalSoldByProduct(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
