package repository

import (
	"context"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/google/uuid"
)

// CashboxRepository defines cashbox session data access
type CashboxRepository interface {
	Create(ctx context.Context, cashbox *entity.Cashbox) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Cashbox, error)
	List(ctx context.Context) ([]entity.Cashbox, error)
	Update(ctx context.Context, cashbox *entity.Cashbox) error
}
