package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "quincena/internal/errors"
	"quincena/internal/pagination"
	"quincena/internal/services"
)

// StockPeriodHandler handles equity holding periods.
type StockPeriodHandler struct {
	stockPeriodService services.StockPeriodServicer
	auditService       services.AuditServicer
}

// NewStockPeriodHandler creates a new StockPeriodHandler.
func NewStockPeriodHandler(stockPeriodService services.StockPeriodServicer, auditService services.AuditServicer) *StockPeriodHandler {
	return &StockPeriodHandler{stockPeriodService: stockPeriodService, auditService: auditService}
}

// CreateStockPeriodRequest represents the request payload for a stock period.
// Symbols are upper-cased before validation.
type CreateStockPeriodRequest struct {
	Symbol     string          `json:"symbol" binding:"required,max=16"`
	Shares     decimal.Decimal `json:"shares" swaggertype:"string"`
	GrantPrice decimal.Decimal `json:"grant_price" swaggertype:"string"`
	Currency   string          `json:"currency" binding:"required,iso4217"`
	StartDate  string          `json:"start_date" binding:"required"`
	EndDate    *string         `json:"end_date"`
	Notes      string          `json:"notes" binding:"max=1000"`
}

// UpdateStockPeriodRequest represents the request payload for updating a
// stock period. Set clear_end_date to reopen a closed period.
type UpdateStockPeriodRequest struct {
	Symbol       *string          `json:"symbol" binding:"omitempty,max=16"`
	Shares       *decimal.Decimal `json:"shares" swaggertype:"string"`
	GrantPrice   *decimal.Decimal `json:"grant_price" swaggertype:"string"`
	Currency     *string          `json:"currency" binding:"omitempty,iso4217"`
	StartDate    *string          `json:"start_date"`
	EndDate      *string          `json:"end_date"`
	ClearEndDate bool             `json:"clear_end_date"`
	Notes        *string          `json:"notes" binding:"omitempty,max=1000"`
}

// CreateStockPeriod handles the creation of a stock period.
// @Summary     Create a stock period
// @Tags        stock-periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateStockPeriodRequest true "Stock period"
// @Success     201 {object} models.StockPeriod "Stock period created"
// @Failure     400 {object} ErrorResponse "Invalid input or date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stock-periods [post]
func (h *StockPeriodHandler) CreateStockPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateStockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date must be a date (YYYY-MM-DD)"))
		return
	}
	input := services.StockPeriodInput{
		Symbol:     req.Symbol,
		Shares:     req.Shares,
		GrantPrice: req.GrantPrice,
		Currency:   req.Currency,
		StartDate:  startDate,
		Notes:      req.Notes,
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must be a date (YYYY-MM-DD)"))
			return
		}
		input.EndDate = &end
	}

	period, err := h.stockPeriodService.CreateStockPeriod(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_STOCK_PERIOD", "stock_period", period.ID, c.ClientIP(),
		map[string]interface{}{"symbol": period.Symbol, "start_date": req.StartDate})

	c.JSON(http.StatusCreated, gin.H{"stock_period": period})
}

// GetStockPeriods handles listing stock periods.
// @Summary     Get stock periods
// @Description Paginated stock periods ordered by start date. active_on keeps periods covering that day.
// @Tags        stock-periods
// @Produce     json
// @Security    BearerAuth
// @Param       active_on query string false "Date the period must cover (YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.StockPeriod] "Paginated stock periods"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stock-periods [get]
func (h *StockPeriodHandler) GetStockPeriods(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	activeOn, err := parseDateQuery(c, "active_on")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.stockPeriodService.GetStockPeriods(userID, page, activeOn)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStockPeriod handles retrieving one stock period.
// @Summary     Get stock period by ID
// @Tags        stock-periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Stock period ID"
// @Success     200 {object} models.StockPeriod "Stock period"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Stock period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stock-periods/{id} [get]
func (h *StockPeriodHandler) GetStockPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.stockPeriodService.GetStockPeriodByID(userID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock_period": period})
}

// UpdateStockPeriod handles updating a stock period.
// @Summary     Update a stock period
// @Tags        stock-periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Stock period ID"
// @Param       request body UpdateStockPeriodRequest true "Fields to update"
// @Success     200 {object} models.StockPeriod "Updated stock period"
// @Failure     400 {object} ErrorResponse "Invalid input or date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Stock period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stock-periods/{id} [put]
func (h *StockPeriodHandler) UpdateStockPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.ClearEndDate && req.EndDate != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date and clear_end_date are mutually exclusive"))
		return
	}

	update := services.StockPeriodUpdate{
		Symbol:       req.Symbol,
		Shares:       req.Shares,
		GrantPrice:   req.GrantPrice,
		Currency:     req.Currency,
		ClearEndDate: req.ClearEndDate,
		Notes:        req.Notes,
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date must be a date (YYYY-MM-DD)"))
			return
		}
		update.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must be a date (YYYY-MM-DD)"))
			return
		}
		update.EndDate = &d
	}

	period, err := h.stockPeriodService.UpdateStockPeriod(userID, periodID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_STOCK_PERIOD", "stock_period", period.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"stock_period": period})
}

// DeleteStockPeriod handles deleting a stock period.
// @Summary     Delete a stock period
// @Tags        stock-periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Stock period ID"
// @Success     200 {object} MessageResponse "Stock period deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Stock period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stock-periods/{id} [delete]
func (h *StockPeriodHandler) DeleteStockPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.stockPeriodService.DeleteStockPeriod(userID, periodID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_STOCK_PERIOD", "stock_period", periodID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Stock period deleted successfully"})
}
