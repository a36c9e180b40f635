package service

import (
	"context"
	"testing"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedEntry records a manual financial entry attributed to a cashbox
func seedEntry(t *testing.T, env *testEnv, cashboxID uuid.UUID, entryType enum.EntryType, amount decimal.Decimal) {
	t.Helper()
	err := env.store.entryRepo().Create(context.Background(), &entity.FinancialEntry{
		Type:      entryType,
		Category:  "misc",
		Amount:    amount,
		CashboxID: &cashboxID,
	})
	require.NoError(t, err)
}

func TestCashboxLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	cb, err := env.cashbox.CreateCashbox(ctx, "Morning shift", dec("50.00"))
	require.NoError(t, err)
	assert.Nil(t, cb.OpenedAt)
	assert.Nil(t, cb.ClosedAt)
	assert.False(t, cb.IsOpen())

	opened, err := env.cashbox.OpenCashbox(ctx, cb.ID)
	require.NoError(t, err)
	require.NotNil(t, opened.OpenedAt)
	assert.True(t, opened.IsOpen())

	closed, err := env.cashbox.CloseCashbox(ctx, cb.ID, dec("140.00"))
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	require.NotNil(t, closed.ClosedAmount)
	assert.True(t, closed.ClosedAmount.Equal(dec("140.00")))
	assert.False(t, closed.IsOpen())
}

func TestCashboxTransitionsHappenAtMostOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	cb, err := env.cashbox.CreateCashbox(ctx, "Shift", dec("0.00"))
	require.NoError(t, err)

	// Closing before opening is rejected
	_, err = env.cashbox.CloseCashbox(ctx, cb.ID, dec("0.00"))
	var stateErr *apperror.CashboxStateError
	require.ErrorAs(t, err, &stateErr)

	_, err = env.cashbox.OpenCashbox(ctx, cb.ID)
	require.NoError(t, err)

	// A second open is rejected
	_, err = env.cashbox.OpenCashbox(ctx, cb.ID)
	require.ErrorAs(t, err, &stateErr)

	_, err = env.cashbox.CloseCashbox(ctx, cb.ID, dec("10.00"))
	require.NoError(t, err)

	// A second close is rejected, and a closed session cannot reopen
	_, err = env.cashbox.CloseCashbox(ctx, cb.ID, dec("10.00"))
	require.ErrorAs(t, err, &stateErr)
	_, err = env.cashbox.OpenCashbox(ctx, cb.ID)
	require.ErrorAs(t, err, &stateErr)
}

func TestCashboxNegativeInitialAmount(t *testing.T) {
	env := newTestEnv()

	_, err := env.cashbox.CreateCashbox(context.Background(), "Shift", dec("-1.00"))
	assert.Error(t, err)
}

func TestCashboxReportExpectedCash(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	unit := env.store.seedProduct("Unit", "UNT-1", dec("60.00"), 100)

	cb, err := env.cashbox.CreateCashbox(ctx, "Shift", dec("50.00"))
	require.NoError(t, err)
	_, err = env.cashbox.OpenCashbox(ctx, cb.ID)
	require.NoError(t, err)

	// 120.00 in cash payments during the session
	_, err = env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: unit.ID, Quantity: 1}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("60.00")}},
	})
	require.NoError(t, err)
	_, err = env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: unit.ID, Quantity: 1}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("60.00")}},
	})
	require.NoError(t, err)

	// One expense attributed to the session
	seedEntry(t, env, cb.ID, enum.EntryTypeExpense, dec("30.00"))

	report, err := env.cashbox.Report(ctx, cb.ID)
	require.NoError(t, err)

	assert.True(t, report.ExpectedCash.Equal(dec("140.00")), "expected cash %s", report.ExpectedCash)
	require.Len(t, report.Payments, 1)
	assert.Equal(t, enum.PaymentMethodCash, report.Payments[0].Method)
	assert.True(t, report.Payments[0].Amount.Equal(dec("120.00")))
	require.Len(t, report.Entries, 1)
	assert.Equal(t, enum.EntryTypeExpense, report.Entries[0].Type)
}

func TestCashboxReportGroupsMethodsAndIgnoresOtherSessionsEntries(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	unit := env.store.seedProduct("Unit", "UNT-1", dec("10.00"), 100)

	cb, err := env.cashbox.CreateCashbox(ctx, "Shift", dec("0.00"))
	require.NoError(t, err)
	other, err := env.cashbox.CreateCashbox(ctx, "Other", dec("0.00"))
	require.NoError(t, err)

	_, err = env.cashbox.OpenCashbox(ctx, cb.ID)
	require.NoError(t, err)

	_, err = env.sales.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{{ProductID: unit.ID, Quantity: 2}},
		Payments: []SalePaymentInput{
			{Method: enum.PaymentMethodCash, Amount: dec("10.00")},
			{Method: enum.PaymentMethodCard, Amount: dec("10.00")},
		},
	})
	require.NoError(t, err)

	// An entry on a different cashbox must not leak into this report
	seedEntry(t, env, other.ID, enum.EntryTypeIncome, dec("99.00"))
	seedEntry(t, env, cb.ID, enum.EntryTypeIncome, dec("5.00"))

	report, err := env.cashbox.Report(ctx, cb.ID)
	require.NoError(t, err)

	require.Len(t, report.Payments, 2)
	// Card money never enters the drawer
	assert.True(t, report.ExpectedCash.Equal(dec("15.00")), "expected cash %s", report.ExpectedCash)
	require.Len(t, report.Entries, 1)
	assert.True(t, report.Entries[0].Amount.Equal(dec("5.00")))
}

func TestCashboxReportOnOpenSessionReflectsCurrentState(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	unit := env.store.seedProduct("Unit", "UNT-1", dec("10.00"), 100)

	cb, err := env.cashbox.CreateCashbox(ctx, "Shift", dec("20.00"))
	require.NoError(t, err)
	_, err = env.cashbox.OpenCashbox(ctx, cb.ID)
	require.NoError(t, err)

	report, err := env.cashbox.Report(ctx, cb.ID)
	require.NoError(t, err)
	assert.True(t, report.ExpectedCash.Equal(dec("20.00")))

	_, err = env.sales.CreateSale(ctx, &CreateSaleInput{
		Items:    []SaleItemInput{{ProductID: unit.ID, Quantity: 1}},
		Payments: []SalePaymentInput{{Method: enum.PaymentMethodCash, Amount: dec("10.00")}},
	})
	require.NoError(t, err)

	// Re-running the report on the still-open session picks up the new sale
	report, err = env.cashbox.Report(ctx, cb.ID)
	require.NoError(t, err)
	assert.True(t, report.ExpectedCash.Equal(dec("30.00")))
}
