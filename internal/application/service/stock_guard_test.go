package service

import (
	"context"
	"testing"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockGuardBlocksOversell(t *testing.T) {
	env := newTestEnv()
	guard := NewStockGuard(env.store.productRepo())

	product := env.store.seedProduct("Scarce", "SCR-1", dec("10.00"), 2)

	sale := &entity.Sale{
		Status: enum.SaleStatusCompleted,
		Items:  []entity.SaleItem{{ProductID: product.ID, Quantity: 3}},
	}
	err := guard.ValidateSale(context.Background(), sale)
	var insufficient *apperror.StockInsufficientError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, product.ID, insufficient.ProductID)
}

func TestStockGuardAllowsExactStock(t *testing.T) {
	env := newTestEnv()
	guard := NewStockGuard(env.store.productRepo())

	product := env.store.seedProduct("Scarce", "SCR-1", dec("10.00"), 2)

	sale := &entity.Sale{
		Status: enum.SaleStatusCompleted,
		Items:  []entity.SaleItem{{ProductID: product.ID, Quantity: 2}},
	}
	assert.NoError(t, guard.ValidateSale(context.Background(), sale))
}

func TestStockGuardSkipsCancelledSales(t *testing.T) {
	env := newTestEnv()
	guard := NewStockGuard(env.store.productRepo())

	product := env.store.seedProduct("Scarce", "SCR-1", dec("10.00"), 0)

	sale := &entity.Sale{
		Status: enum.SaleStatusCancelled,
		Items:  []entity.SaleItem{{ProductID: product.ID, Quantity: 5}},
	}
	assert.NoError(t, guard.ValidateSale(context.Background(), sale))
}

func TestStockGuardUnknownProduct(t *testing.T) {
	env := newTestEnv()
	guard := NewStockGuard(env.store.productRepo())

	sale := &entity.Sale{
		Status: enum.SaleStatusCompleted,
		Items:  []entity.SaleItem{{ProductID: uuid.New(), Quantity: 1}},
	}
	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, guard.ValidateSale(context.Background(), sale), &notFound)
}

func TestUpdateSaleOversellRollsBack(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	product := env.store.seedProduct("Scarce", "SCR-1", dec("10.00"), 3)

	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: product.ID, Quantity: 2}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("20.00")}},
	})
	require.NoError(t, err)

	// Raising the quantity past available stock must fail and restore the sale
	_, err = env.sales.UpdateSale(ctx, sale.ID, &UpdateSaleInput{
		Items:    []SaleItemInput{{ProductID: product.ID, Quantity: 5}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("50.00")}},
	})
	var insufficient *apperror.StockInsufficientError
	require.ErrorAs(t, err, &insufficient)

	stored, err := env.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(dec("20.00")))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}
