package repository

import (
	"context"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	domainRepo "github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type customerPaymentRepository struct {
	db *gorm.DB
}

// NewCustomerPaymentRepository creates a new customer payment repository
func NewCustomerPaymentRepository(db *gorm.DB) domainRepo.CustomerPaymentRepository {
	return &customerPaymentRepository{db: db}
}

func (r *customerPaymentRepository) Create(ctx context.Context, payment *entity.CustomerPayment) error {
	// Allocations attached to the payment are inserted in the same statement
	return conn(ctx, r.db).Create(payment).Error
}

func (r *customerPaymentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerPayment, error) {
	var payments []entity.CustomerPayment
	err := conn(ctx, r.db).
		Preload("Allocations").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *customerPaymentRepository) SumAllocationsBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := conn(ctx, r.db).Model(&entity.CustomerPaymentAllocation{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("sale_id = ?", saleID).
		Scan(&row).Error
	return row.Total, err
}
