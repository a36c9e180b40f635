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

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return conn(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := conn(ctx, r.db).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := conn(ctx, r.db).
		Preload("Customer").
		Preload("Items.Product").
		Preload("Payments").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return conn(ctx, r.db).Omit("Items", "Payments", "Customer").Save(sale).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := conn(ctx, r.db).Model(&entity.Sale{})

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Items.Product").
		Preload("Payments").
		Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := conn(ctx, r.db).
		Preload("Payments").
		Where("customer_id = ?", customerID).
		Order("created_at ASC, id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) ReplaceItems(ctx context.Context, saleID uuid.UUID, items []entity.SaleItem) error {
	db := conn(ctx, r.db)
	if err := db.Delete(&entity.SaleItem{}, "sale_id = ?", saleID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].SaleID = saleID
	}
	return db.Create(&items).Error
}

func (r *saleRepository) ReplacePayments(ctx context.Context, saleID uuid.UUID, payments []entity.SalePayment) error {
	db := conn(ctx, r.db)
	if err := db.Delete(&entity.SalePayment{}, "sale_id = ?", saleID).Error; err != nil {
		return err
	}
	if len(payments) == 0 {
		return nil
	}
	for i := range payments {
		payments[i].SaleID = saleID
	}
	return db.Create(&payments).Error
}

func (r *saleRepository) SumPaymentsByMethod(ctx context.Context, start time.Time, end *time.Time) ([]domainRepo.PaymentMethodTotal, error) {
	var totals []domainRepo.PaymentMethodTotal

	// Payments have no timestamp of their own; the parent sale's created_at
	// bounds the session window.
	query := conn(ctx, r.db).Model(&entity.SalePayment{}).
		Select("sale_payments.method AS method, COALESCE(SUM(sale_payments.amount), 0) AS amount").
		Joins("JOIN sales ON sales.id = sale_payments.sale_id").
		Where("sales.created_at >= ?", start)
	if end != nil {
		query = query.Where("sales.created_at <= ?", *end)
	}

	err := query.Group("sale_payments.method").Scan(&totals).Error
	return totals, err
}
