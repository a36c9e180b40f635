package database

import (
	"errors"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/pkg/apperror"
	"gorm.io/gorm"
)

// RegisterStockGuard installs a store-level hook that re-checks stock
// availability whenever a completed sale is written through this connection.
//
// The primary check lives in the application layer (service.StockGuard); this
// callback is defense in depth for write paths that persist a Sale directly,
// such as bulk imports or maintenance scripts sharing the connection. It runs
// inside the same transaction as the write, so a failure rolls everything
// back.
func RegisterStockGuard(db *gorm.DB) error {
	if err := db.Callback().Create().After("gorm:create").Register("balcao:stock_guard_create", stockGuardHook); err != nil {
		return err
	}
	return db.Callback().Update().After("gorm:update").Register("balcao:stock_guard_update", stockGuardHook)
}

func stockGuardHook(db *gorm.DB) {
	if db.Error != nil || db.Statement == nil {
		return
	}

	sale := saleFromDest(db.Statement.Dest)
	if sale == nil || sale.Status != enum.SaleStatusCompleted {
		return
	}

	// Runs on the transaction's connection, so it observes the staged writes.
	session := db.Session(&gorm.Session{NewDB: true, SkipHooks: true})
	for _, item := range sale.Items {
		var product entity.Product
		err := session.First(&product, "id = ?", item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			db.AddError(apperror.NewProductNotFound(item.ProductID))
			return
		}
		if err != nil {
			db.AddError(err)
			return
		}
		if item.Quantity > product.Stock {
			db.AddError(&apperror.StockInsufficientError{
				ProductID: product.ID,
				Requested: item.Quantity,
				Available: product.Stock,
			})
			return
		}
	}
}

func saleFromDest(dest interface{}) *entity.Sale {
	switch v := dest.(type) {
	case *entity.Sale:
		return v
	case entity.Sale:
		return &v
	}
	return nil
}
