package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	domainRepo "github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type financialEntryRepository struct {
	db *gorm.DB
}

// NewFinancialEntryRepository creates a new financial entry repository
func NewFinancialEntryRepository(db *gorm.DB) domainRepo.FinancialEntryRepository {
	return &financialEntryRepository{db: db}
}

func (r *financialEntryRepository) Create(ctx context.Context, entry *entity.FinancialEntry) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *financialEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FinancialEntry, error) {
	var entry entity.FinancialEntry
	err := conn(ctx, r.db).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *financialEntryRepository) List(ctx context.Context, params *domainRepo.FinancialEntryFilterParams) ([]entity.FinancialEntry, int64, error) {
	var entries []entity.FinancialEntry
	var total int64

	query := conn(ctx, r.db).Model(&entity.FinancialEntry{})
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&entries).Error

	return entries, total, err
}

func (r *financialEntryRepository) ListByCashboxBetween(ctx context.Context, cashboxID uuid.UUID, start time.Time, end *time.Time) ([]entity.FinancialEntry, error) {
	var entries []entity.FinancialEntry

	query := conn(ctx, r.db).
		Where("cashbox_id = ?", cashboxID).
		Where("created_at >= ?", start)
	if end != nil {
		query = query.Where("created_at <= ?", *end)
	}

	err := query.Order("created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *financialEntryRepository) Update(ctx context.Context, entry *entity.FinancialEntry) error {
	return conn(ctx, r.db).Save(entry).Error
}

func (r *financialEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.FinancialEntry{}, "id = ?", id).Error
}
