package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cashbox models a cash-drawer session: created, then opened at most once,
// then closed at most once.
type Cashbox struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	InitialAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"initial_amount"`
	ClosedAmount  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"closed_amount,omitempty"`
	OpenedAt      *time.Time       `json:"opened_at,omitempty"`
	ClosedAt      *time.Time       `json:"closed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Entries []FinancialEntry `gorm:"foreignKey:CashboxID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new cashbox
func (c *Cashbox) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the session is currently open
func (c *Cashbox) IsOpen() bool {
	return c.OpenedAt != nil && c.ClosedAt == nil
}

// TableName returns the table name for the Cashbox model
func (Cashbox) TableName() string {
	return "cashboxes"
}
