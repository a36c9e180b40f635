package handler

import (
	"github.com/dmelo/balcao-api/internal/application/service"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/dmelo/balcao-api/internal/presentation/http/dto/request"
	"github.com/dmelo/balcao-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles creating a sale
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateSaleInput{Notes: req.Notes}

	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &customerID
	}

	items, ok := saleItemInputs(c, req.Items)
	if !ok {
		return
	}
	input.Items = items
	input.Payments = salePaymentInputs(req.Payments)

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", sale)
}

// Get handles retrieving a sale with items and payments
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	params := &repository.SaleFilterParams{
		Pagination: paginationFromQuery(c),
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		customerID, err := uuid.Parse(customerIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.SaleStatus(statusStr)
		if !status.Valid() {
			response.BadRequest(c, "Invalid sale status")
			return
		}
		params.Status = &status
	}

	var ok bool
	if params.StartDate, ok = dateFromQuery(c, "from"); !ok {
		response.BadRequest(c, "Invalid from date")
		return
	}
	if params.EndDate, ok = dateFromQuery(c, "to"); !ok {
		response.BadRequest(c, "Invalid to date")
		return
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Update handles a partial sale update
func (h *SaleHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateSaleInput{Notes: req.Notes}

	if req.CustomerID != nil {
		// An empty string detaches the customer from the sale
		if *req.CustomerID == "" {
			detached := uuid.Nil
			input.CustomerID = &detached
		} else {
			customerID, err := uuid.Parse(*req.CustomerID)
			if err != nil {
				response.BadRequest(c, "Invalid customer ID")
				return
			}
			input.CustomerID = &customerID
		}
	}
	if req.Status != nil {
		status := enum.SaleStatus(*req.Status)
		if !status.Valid() {
			response.BadRequest(c, "Invalid sale status")
			return
		}
		input.Status = &status
	}
	if req.Items != nil {
		items, ok := saleItemInputs(c, req.Items)
		if !ok {
			return
		}
		input.Items = items
	}
	if req.Payments != nil {
		input.Payments = salePaymentInputs(req.Payments)
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", sale)
}

// Cancel handles cancelling a sale
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled successfully", sale)
}

func saleItemInputs(c *gin.Context, reqs []request.SaleItemRequest) ([]service.SaleItemInput, bool) {
	items := make([]service.SaleItemInput, 0, len(reqs))
	for _, item := range reqs {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID")
			return nil, false
		}
		items = append(items, service.SaleItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return items, true
}

func salePaymentInputs(reqs []request.SalePaymentRequest) []service.SalePaymentInput {
	payments := make([]service.SalePaymentInput, 0, len(reqs))
	for _, p := range reqs {
		payments = append(payments, service.SalePaymentInput{
			Method: enum.PaymentMethod(p.Method),
			Amount: p.Amount,
			Notes:  p.Notes,
		})
	}
	return payments
}
