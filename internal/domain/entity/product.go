package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the catalog
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	SKU       string          `gorm:"size:100;unique;not null;index" json:"sku"`
	Category  string          `gorm:"size:100;not null" json:"category"`
	Supplier  *string         `gorm:"size:255" json:"supplier,omitempty"`
	CostPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_price"`
	SalePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
	// Margin is derived (sale_price - cost_price) and recomputed whenever prices change
	Margin   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"margin"`
	Stock    int             `gorm:"not null;default:0" json:"stock"`
	MinStock int             `gorm:"not null;default:0" json:"min_stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	SaleItems []SaleItem `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RecalculateMargin refreshes the derived margin from the current prices
func (p *Product) RecalculateMargin() {
	p.Margin = p.SalePrice.Sub(p.CostPrice)
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
