package entity

import (
	"time"

	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerPayment is a real-money payment made by a customer against their
// outstanding store-credit debt. Payments and their allocations form an
// append-only ledger: they are never mutated after creation.
type CustomerPayment struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	Method     enum.PaymentMethod `gorm:"type:varchar(30);not null" json:"method"`
	Amount     decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Notes      *string            `gorm:"size:255" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Customer    Customer                    `gorm:"foreignKey:CustomerID" json:"-"`
	Allocations []CustomerPaymentAllocation `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"allocations,omitempty"`
}

// BeforeCreate generates a UUID before creating a new customer payment
func (p *CustomerPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CustomerPayment model
func (CustomerPayment) TableName() string {
	return "customer_payments"
}

// CustomerPaymentAllocation records how much of a customer payment was applied
// to a specific sale's outstanding store-credit balance
type CustomerPaymentAllocation struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`

	// Relationships
	Payment CustomerPayment `gorm:"foreignKey:PaymentID" json:"-"`
	Sale    Sale            `gorm:"foreignKey:SaleID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new allocation
func (a *CustomerPaymentAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CustomerPaymentAllocation model
func (CustomerPaymentAllocation) TableName() string {
	return "customer_payment_allocations"
}
