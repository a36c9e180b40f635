package service

import (
	"context"
	"testing"

	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type testEnv struct {
	store    *memStore
	sales    *SaleService
	payments *PaymentService
	cashbox  *CashboxService
	products *ProductService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	guard := NewStockGuard(store.productRepo())
	cashbox := NewCashboxService(store, store.cashboxRepo(), store.saleRepo(), store.entryRepo())
	cashbox.now = store.now
	return &testEnv{
		store:    store,
		sales:    NewSaleService(store, store.saleRepo(), store.productRepo(), store.customerRepo(), guard),
		payments: NewPaymentService(store, store.saleRepo(), store.customerRepo(), store.paymentRepo()),
		cashbox:  cashbox,
		products: NewProductService(store.productRepo()),
	}
}

func TestCreateSaleComputesTotals(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	coffee := env.store.seedProduct("Coffee", "COF-1", dec("10.00"), 50)
	sugar := env.store.seedProduct("Sugar", "SUG-1", dec("5.50"), 50)

	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: coffee.ID, Quantity: 2},
			{ProductID: sugar.ID, Quantity: 1},
		},
		Payments: []SalePaymentInput{
			{Method: enum.PaymentMethodCash, Amount: dec("25.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	assert.True(t, sale.TotalAmount.Equal(dec("25.50")), "total %s", sale.TotalAmount)
	require.Len(t, sale.Items, 2)
	assert.True(t, sale.Items[0].LineTotal.Equal(dec("20.00")))
	assert.True(t, sale.Items[1].LineTotal.Equal(dec("5.50")))
}

func TestCreateSaleUnitPriceOverride(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	coffee := env.store.seedProduct("Coffee", "COF-1", dec("10.00"), 50)

	override := dec("8.00")
	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: coffee.ID, Quantity: 3, UnitPrice: &override},
		},
		Payments: []SalePaymentInput{
			{Method: enum.PaymentMethodCard, Amount: dec("24.00")},
		},
	})
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(dec("24.00")))
}

func TestCreateSalePaymentTolerance(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	item := env.store.seedProduct("Item", "ITM-1", dec("25.00"), 50)

	// A 0.01 difference is accepted as rounding slack
	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: item.ID, Quantity: 4},
		},
		Payments: []SalePaymentInput{
			{Method: enum.PaymentMethodCash, Amount: dec("99.99")},
		},
	})
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(dec("100.00")))

	// A 1.00 shortfall is rejected
	_, err = env.sales.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: item.ID, Quantity: 4},
		},
		Payments: []SalePaymentInput{
			{Method: enum.PaymentMethodCash, Amount: dec("99.00")},
		},
	})
	var mismatch *apperror.PaymentMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.TotalAmount.Equal(dec("100.00")))
	assert.True(t, mismatch.TotalPayments.Equal(dec("99.00")))
}

func TestCreateSaleStockGuardRollsBackEverything(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	scarce := env.store.seedProduct("Scarce", "SCR-1", dec("10.00"), 3)

	_, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: scarce.ID, Quantity: 5},
		},
		Payments: []SalePaymentInput{
			{Method: enum.PaymentMethodCash, Amount: dec("50.00")},
		},
	})
	var insufficient *apperror.StockInsufficientError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.Requested)
	assert.Equal(t, 3, insufficient.Available)

	// Nothing may persist: no sale, no items, no payments
	assert.Empty(t, env.store.sales)
}

func TestCreateSaleDoesNotDecrementStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	coffee := env.store.seedProduct("Coffee", "COF-1", dec("10.00"), 10)

	_, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: coffee.ID, Quantity: 4},
		},
		Payments: []SalePaymentInput{
			{Method: enum.PaymentMethodCash, Amount: dec("40.00")},
		},
	})
	require.NoError(t, err)

	// Completing a sale validates availability but leaves the counter alone;
	// stock adjustments are an explicit catalog operation.
	stored := env.store.products[coffee.ID]
	assert.Equal(t, 10, stored.Stock)
}

func TestCreateSaleInvalidInputs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	coffee := env.store.seedProduct("Coffee", "COF-1", dec("10.00"), 10)

	_, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: coffee.ID, Quantity: 0}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("10.00")}},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)

	_, err = env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("-10.00")}},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)

	_, err = env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethod("barter"), Amount: dec("10.00")}},
	})
	assert.Error(t, err)
}

func TestUpdateSaleReplacesItemsAndRevalidates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	coffee := env.store.seedProduct("Coffee", "COF-1", dec("10.00"), 50)
	sugar := env.store.seedProduct("Sugar", "SUG-1", dec("5.00"), 50)

	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: coffee.ID, Quantity: 2}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("20.00")}},
	})
	require.NoError(t, err)

	// Replacing items without matching payments must fail the reconciliation
	_, err = env.sales.UpdateSale(ctx, sale.ID, &UpdateSaleInput{
		Items: []SaleItemInput{{ProductID: sugar.ID, Quantity: 1}},
	})
	var mismatch *apperror.PaymentMismatchError
	require.ErrorAs(t, err, &mismatch)

	// The failed update must not have touched the stored sale
	stored, err := env.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(dec("20.00")))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, coffee.ID, stored.Items[0].ProductID)

	// Replacing both sets together succeeds
	updated, err := env.sales.UpdateSale(ctx, sale.ID, &UpdateSaleInput{
		Items:    []SaleItemInput{{ProductID: sugar.ID, Quantity: 3}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCard, Amount: dec("15.00")}},
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("15.00")))
	require.Len(t, updated.Items, 1)
	assert.Equal(t, sugar.ID, updated.Items[0].ProductID)
}

func TestCancelSaleIsTerminalAndIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	coffee := env.store.seedProduct("Coffee", "COF-1", dec("10.00"), 50)

	sale, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("10.00")}},
	})
	require.NoError(t, err)

	cancelled, err := env.sales.CancelSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCancelled, cancelled.Status)

	// Item and payment edits are rejected on a cancelled sale
	_, err = env.sales.UpdateSale(ctx, sale.ID, &UpdateSaleInput{
		Items: []SaleItemInput{{ProductID: coffee.ID, Quantity: 2}},
	})
	assert.ErrorIs(t, err, apperror.ErrSaleCancelled)

	completed := enum.SaleStatusCompleted
	_, err = env.sales.UpdateSale(ctx, sale.ID, &UpdateSaleInput{Status: &completed})
	assert.ErrorIs(t, err, apperror.ErrSaleCancelled)

	// A repeated cancel is a no-op
	again, err := env.sales.CancelSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCancelled, again.Status)
	assert.Equal(t, cancelled.ID, again.ID)

	// Confirming the cancelled status through update is allowed
	cancelledStatus := enum.SaleStatusCancelled
	confirmed, err := env.sales.UpdateSale(ctx, sale.ID, &UpdateSaleInput{Status: &cancelledStatus})
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCancelled, confirmed.Status)
}

func TestCreateSaleUnknownCustomer(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	coffee := env.store.seedProduct("Coffee", "COF-1", dec("10.00"), 50)
	ghost := env.store.seedCustomer("Ghost")
	delete(env.store.customers, ghost.ID)

	_, err := env.sales.CreateSale(ctx, &CreateSaleInput{
		CustomerID: &ghost.ID,
		Items:      []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		Payments:   []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("10.00")}},
	})
	var notFound *apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, env.store.sales)
}
