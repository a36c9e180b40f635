package handler

import (
	"github.com/dmelo/balcao-api/internal/application/service"
	"github.com/dmelo/balcao-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CashboxHandler handles cash-drawer session HTTP requests
type CashboxHandler struct {
	cashboxService *service.CashboxService
}

// NewCashboxHandler creates a new cashbox handler
func NewCashboxHandler(cashboxService *service.CashboxService) *CashboxHandler {
	return &CashboxHandler{cashboxService: cashboxService}
}

// Create handles creating a cashbox session
func (h *CashboxHandler) Create(c *gin.Context) {
	var req struct {
		Name          string          `json:"name" binding:"required,min=1,max=255"`
		InitialAmount decimal.Decimal `json:"initial_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cashbox, err := h.cashboxService.CreateCashbox(c.Request.Context(), req.Name, req.InitialAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cashbox created successfully", cashbox)
}

// Get handles retrieving a cashbox session
func (h *CashboxHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cashbox ID")
		return
	}

	cashbox, err := h.cashboxService.GetCashbox(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashbox retrieved successfully", cashbox)
}

// List handles listing cashbox sessions
func (h *CashboxHandler) List(c *gin.Context) {
	cashboxes, err := h.cashboxService.ListCashboxes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashboxes retrieved successfully", cashboxes)
}

// Open handles opening a cashbox session
func (h *CashboxHandler) Open(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cashbox ID")
		return
	}

	cashbox, err := h.cashboxService.OpenCashbox(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashbox opened successfully", cashbox)
}

// Close handles closing a cashbox session with the counted amount
func (h *CashboxHandler) Close(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cashbox ID")
		return
	}

	var req struct {
		ClosedAmount decimal.Decimal `json:"closed_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cashbox, err := h.cashboxService.CloseCashbox(c.Request.Context(), id, req.ClosedAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashbox closed successfully", cashbox)
}

// Report handles the session reconciliation report
func (h *CashboxHandler) Report(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cashbox ID")
		return
	}

	report, err := h.cashboxService.Report(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashbox report generated successfully", report)
}
