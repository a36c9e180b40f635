package repository

import (
	"context"
	"errors"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	domainRepo "github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cashboxRepository struct {
	db *gorm.DB
}

// NewCashboxRepository creates a new cashbox repository
func NewCashboxRepository(db *gorm.DB) domainRepo.CashboxRepository {
	return &cashboxRepository{db: db}
}

func (r *cashboxRepository) Create(ctx context.Context, cashbox *entity.Cashbox) error {
	return conn(ctx, r.db).Create(cashbox).Error
}

func (r *cashboxRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Cashbox, error) {
	var cashbox entity.Cashbox
	err := conn(ctx, r.db).First(&cashbox, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cashbox, err
}

func (r *cashboxRepository) List(ctx context.Context) ([]entity.Cashbox, error) {
	var cashboxes []entity.Cashbox
	err := conn(ctx, r.db).Order("created_at DESC").Find(&cashboxes).Error
	return cashboxes, err
}

func (r *cashboxRepository) Update(ctx context.Context, cashbox *entity.Cashbox) error {
	return conn(ctx, r.db).Save(cashbox).Error
}
