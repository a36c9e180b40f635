package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a create product request
type CreateProductRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=255"`
	SKU       string          `json:"sku" binding:"required,min=1,max=100"`
	Category  string          `json:"category" binding:"required"`
	Supplier  *string         `json:"supplier"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Stock     int             `json:"stock" binding:"gte=0"`
	MinStock  int             `json:"min_stock" binding:"gte=0"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	Supplier  *string          `json:"supplier"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	Stock     *int             `json:"stock"`
	MinStock  *int             `json:"min_stock"`
}
