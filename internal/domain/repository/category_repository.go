package repository

import (
	"context"

	"github.com/dmelo/balcao-api/internal/domain/entity"
)

// CategoryRepository defines category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
}
