package request

import "github.com/shopspring/decimal"

// SaleItemRequest is one line item in a sale payload
type SaleItemRequest struct {
	ProductID string           `json:"product_id" binding:"required,uuid"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// SalePaymentRequest is one payment in a sale payload
type SalePaymentRequest struct {
	Method string          `json:"method" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  *string         `json:"notes"`
}

// CreateSaleRequest represents a create sale request
type CreateSaleRequest struct {
	CustomerID *string              `json:"customer_id" binding:"omitempty,uuid"`
	Items      []SaleItemRequest    `json:"items" binding:"required,min=1,dive"`
	Payments   []SalePaymentRequest `json:"payments" binding:"required,min=1,dive"`
	Notes      *string              `json:"notes"`
}

// UpdateSaleRequest represents a partial sale update. Omitted item and
// payment arrays leave the stored sets untouched.
type UpdateSaleRequest struct {
	CustomerID *string              `json:"customer_id"`
	Status     *string              `json:"status"`
	Notes      *string              `json:"notes"`
	Items      []SaleItemRequest    `json:"items" binding:"omitempty,dive"`
	Payments   []SalePaymentRequest `json:"payments" binding:"omitempty,dive"`
}

// CustomerPaymentRequest represents a customer payment request
type CustomerPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required"`
	Notes  *string         `json:"notes"`
}
