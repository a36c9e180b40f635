package entity

import (
	"time"

	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialEntry is a manually recorded income or expense not tied to a sale,
// optionally attributed to a cashbox session
type FinancialEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Type      enum.EntryType  `gorm:"type:varchar(20);not null" json:"type"`
	Category  string          `gorm:"size:100;not null" json:"category"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Notes     *string         `gorm:"size:500" json:"notes,omitempty"`
	CashboxID *uuid.UUID      `gorm:"type:uuid;index" json:"cashbox_id,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Cashbox *Cashbox `gorm:"foreignKey:CashboxID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new financial entry
func (e *FinancialEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the FinancialEntry model
func (FinancialEntry) TableName() string {
	return "financial_entries"
}
