package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/dmelo/balcao-api/pkg/apperror"
	"github.com/dmelo/balcao-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ProductService handles catalog operations. The derived margin is recomputed
// on every price change.
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name      string
	SKU       string
	Category  string
	Supplier  *string
	CostPrice decimal.Decimal
	SalePrice decimal.Decimal
	Stock     int
	MinStock  int
}

// UpdateProductInput represents a partial product update
type UpdateProductInput struct {
	Name      *string
	Category  *string
	Supplier  *string
	CostPrice *decimal.Decimal
	SalePrice *decimal.Decimal
	Stock     *int
	MinStock  *int
}

// ProductReportRow is a product with its accumulated sold value
type ProductReportRow struct {
	Product   entity.Product  `json:"product"`
	TotalSold decimal.Decimal `json:"total_sold"`
}

// ProductReportTotals aggregates inventory value across the report
type ProductReportTotals struct {
	TotalProducts int             `json:"total_products"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalSale     decimal.Decimal `json:"total_sale"`
}

// ProductReport is the catalog report payload
type ProductReport struct {
	Products []ProductReportRow  `json:"products"`
	Totals   ProductReportTotals `json:"totals"`
}

// CreateProduct creates a product, rejecting duplicate SKUs
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	existing, err := s.productRepo.GetBySKU(ctx, input.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product with this SKU already exists")
	}

	product := &entity.Product{
		Name:      input.Name,
		SKU:       input.SKU,
		Category:  input.Category,
		Supplier:  input.Supplier,
		CostPrice: input.CostPrice,
		SalePrice: input.SalePrice,
		Stock:     input.Stock,
		MinStock:  input.MinStock,
	}
	product.RecalculateMargin()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewProductNotFound(id)
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct applies a partial update and refreshes the margin
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewProductNotFound(id)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Supplier != nil {
		product.Supplier = input.Supplier
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.SalePrice != nil {
		product.SalePrice = *input.SalePrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperror.NewBadRequestError("Stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	product.RecalculateMargin()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewProductNotFound(id)
	}
	return s.productRepo.Delete(ctx, id)
}

// Report builds the catalog report: every product created in the window with
// its total sold value, plus inventory cost/sale totals at current stock.
func (s *ProductService) Report(ctx context.Context, from, to *time.Time) (*ProductReport, error) {
	products, err := s.productRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	soldTotals, err := s.productRepo.TotalSoldByProduct(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ProductReportRow, 0, len(products))
	totalCost := decimal.Zero
	totalSale := decimal.Zero
	for _, p := range products {
		stock := decimal.NewFromInt(int64(p.Stock))
		totalCost = totalCost.Add(p.CostPrice.Mul(stock))
		totalSale = totalSale.Add(p.SalePrice.Mul(stock))

		rows = append(rows, ProductReportRow{
			Product:   p,
			TotalSold: soldTotals[p.ID],
		})
	}

	return &ProductReport{
		Products: rows,
		Totals: ProductReportTotals{
			TotalProducts: len(products),
			TotalCost:     totalCost,
			TotalSale:     totalSale,
		},
	}, nil
}

// ExportReport renders the catalog report as an Excel workbook
func (s *ProductService) ExportReport(ctx context.Context, from, to *time.Time) (*excelize.File, error) {
	report, err := s.Report(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Products"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"SKU", "Name", "Category", "Cost Price", "Sale Price", "Margin", "Stock", "Total Sold"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, r := range report.Products {
		values := []interface{}{
			r.Product.SKU,
			r.Product.Name,
			r.Product.Category,
			r.Product.CostPrice.InexactFloat64(),
			r.Product.SalePrice.InexactFloat64(),
			r.Product.Margin.InexactFloat64(),
			r.Product.Stock,
			r.TotalSold.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	summaryRow := len(report.Products) + 3
	summary := fmt.Sprintf("Products: %d | Inventory cost: %s | Inventory sale value: %s",
		report.Totals.TotalProducts,
		report.Totals.TotalCost.StringFixed(2),
		report.Totals.TotalSale.StringFixed(2))
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	if err := f.SetCellValue(sheet, cell, summary); err != nil {
		return nil, err
	}

	return f, nil
}
