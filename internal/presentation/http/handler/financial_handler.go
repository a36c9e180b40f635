package handler

import (
	"github.com/dmelo/balcao-api/internal/application/service"
	"github.com/dmelo/balcao-api/internal/domain/enum"
	"github.com/dmelo/balcao-api/internal/domain/repository"
	"github.com/dmelo/balcao-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialHandler handles financial entry HTTP requests
type FinancialHandler struct {
	financialService *service.FinancialService
}

// NewFinancialHandler creates a new financial handler
func NewFinancialHandler(financialService *service.FinancialService) *FinancialHandler {
	return &FinancialHandler{financialService: financialService}
}

// Create handles creating a financial entry
func (h *FinancialHandler) Create(c *gin.Context) {
	var req struct {
		Type      string          `json:"type" binding:"required"`
		Category  string          `json:"category" binding:"required"`
		Amount    decimal.Decimal `json:"amount" binding:"required"`
		Notes     *string         `json:"notes"`
		CashboxID *string         `json:"cashbox_id" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateFinancialEntryInput{
		Type:     enum.EntryType(req.Type),
		Category: req.Category,
		Amount:   req.Amount,
		Notes:    req.Notes,
	}
	if req.CashboxID != nil {
		cashboxID, err := uuid.Parse(*req.CashboxID)
		if err != nil {
			response.BadRequest(c, "Invalid cashbox ID")
			return
		}
		input.CashboxID = &cashboxID
	}

	entry, err := h.financialService.CreateEntry(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Financial entry created successfully", entry)
}

// Get handles retrieving a financial entry
func (h *FinancialHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.financialService.GetEntry(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Financial entry retrieved successfully", entry)
}

// List handles listing financial entries
func (h *FinancialHandler) List(c *gin.Context) {
	params := &repository.FinancialEntryFilterParams{
		Pagination: paginationFromQuery(c),
	}
	if typeStr := c.Query("type"); typeStr != "" {
		entryType := enum.EntryType(typeStr)
		if !entryType.Valid() {
			response.BadRequest(c, "Invalid entry type")
			return
		}
		params.Type = &entryType
	}

	result, err := h.financialService.ListEntries(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Financial entries retrieved successfully", result)
}

// Update handles a partial entry update
func (h *FinancialHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid entry ID")
		return
	}

	var req struct {
		Type     *string          `json:"type"`
		Category *string          `json:"category"`
		Amount   *decimal.Decimal `json:"amount"`
		Notes    *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateFinancialEntryInput{
		Category: req.Category,
		Amount:   req.Amount,
		Notes:    req.Notes,
	}
	if req.Type != nil {
		entryType := enum.EntryType(*req.Type)
		input.Type = &entryType
	}

	entry, err := h.financialService.UpdateEntry(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Financial entry updated successfully", entry)
}

// Delete handles deleting a financial entry
func (h *FinancialHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.financialService.DeleteEntry(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
