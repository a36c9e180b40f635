package service

import (
	"context"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/dmelo/balcao-api/pkg/apperror"
)

// StockGuard validates that no completed sale oversells a product.
//
// It runs as the last step of every transaction that stages a completed sale,
// after all item mutations, so it checks the transaction's final state. It
// never mutates stock itself: completing a sale does not decrement stock in
// this system, stock only changes through explicit product updates.
//
// Two concurrent transactions can still both pass the check and oversubscribe
// stock; the store does not take row locks during validation. This mirrors the
// guarantees the rest of the system is built around.
type StockGuard struct {
	productRepo repository.ProductRepository
}

// NewStockGuard creates a new stock guard
func NewStockGuard(productRepo repository.ProductRepository) *StockGuard {
	return &StockGuard{productRepo: productRepo}
}

// ValidateSale checks every line item of a completed sale against current
// stock. The context must carry the transaction the sale was staged in so the
// guard observes pending writes.
func (g *StockGuard) ValidateSale(ctx context.Context, sale *entity.Sale) error {
	if sale.Status != enum.SaleStatusCompleted {
		return nil
	}

	for _, item := range sale.Items {
		product, err := g.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewProductNotFound(item.ProductID)
		}
		if item.Quantity > product.Stock {
			return &apperror.StockInsufficientError{
				ProductID: product.ID,
				Requested: item.Quantity,
				Available: product.Stock,
			}
		}
	}
	return nil
}
