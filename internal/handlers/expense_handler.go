package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/periods"
	"quincena/internal/services"
	"quincena/internal/validator"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for creating an expense.
type CreateExpenseRequest struct {
	Name    string          `json:"name" binding:"required,min=1,max=200"`
	DueDate string          `json:"due_date" binding:"required"`
	IsPaid  bool            `json:"is_paid"`
	Amounts []models.Amount `json:"amounts" binding:"required,min=1,dive"`
	Notes   string          `json:"notes" binding:"max=1000"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
type UpdateExpenseRequest struct {
	Name    *string         `json:"name" binding:"omitempty,min=1,max=200"`
	DueDate *string         `json:"due_date"`
	IsPaid  *bool           `json:"is_paid"`
	Amounts []models.Amount `json:"amounts" binding:"omitempty,min=1,dive"`
	Notes   *string         `json:"notes" binding:"omitempty,max=1000"`
}

// SetPaidRequest represents the request payload for toggling the paid flag.
type SetPaidRequest struct {
	IsPaid *bool `json:"is_paid" binding:"required"`
}

// CreateExpense handles the creation of a new expense.
// @Summary     Create an expense
// @Description Create an expense with one amount per currency. The payment period is derived from the due date.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "due_date must be a date (YYYY-MM-DD)"))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, services.ExpenseInput{
		Name:    req.Name,
		DueDate: dueDate,
		IsPaid:  req.IsPaid,
		Amounts: req.Amounts,
		Notes:   req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "due_date": req.DueDate, "period": expense.Period})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter
	var err error

	if filter.From, err = parseDateQuery(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = parseDateQuery(c, "to"); err != nil {
		return filter, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, apperrors.ErrInvalidDateRange
	}
	if filter.IsPaid, err = parseBoolQuery(c, "is_paid"); err != nil {
		return filter, err
	}

	if v := c.Query("currency"); v != "" {
		code := strings.ToUpper(v)
		if !validator.IsISO4217(code) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
		}
		filter.Currency = &code
	}

	if v := c.Query("period"); v != "" {
		if _, _, _, err := periods.ParseLabel(v); err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must look like YYYY-MM-N")
		}
		filter.Period = &v
	}

	return filter, nil
}

// GetExpenses handles listing expenses for the authenticated user.
// @Summary     Get expenses
// @Description Get a paginated list of expenses ordered by due date
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       from      query string false "Due on or after (YYYY-MM-DD)"
// @Param       to        query string false "Due on or before (YYYY-MM-DD)"
// @Param       currency  query string false "Only expenses with an amount in this currency"
// @Param       is_paid   query bool   false "Filter by paid flag"
// @Param       period    query string false "Filter by period label (YYYY-MM-N)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
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

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetUserExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpenseSummary handles totals per payment period.
// @Summary     Expense summary
// @Description Total, paid and pending amounts per payment period and currency
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       from     query string false "Due on or after (YYYY-MM-DD)"
// @Param       to       query string false "Due on or before (YYYY-MM-DD)"
// @Param       currency query string false "Only this currency"
// @Success     200 {array}  services.PeriodSummary "Summary per period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/summary [get]
func (h *ExpenseHandler) GetExpenseSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.expenseService.GetExpenseSummary(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periods": summary})
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense.
// @Summary     Update an expense
// @Description Update fields of an expense. A new due date moves it to the matching period; new amounts replace the old ones.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ExpenseUpdate{
		Name:    req.Name,
		IsPaid:  req.IsPaid,
		Amounts: req.Amounts,
		Notes:   req.Notes,
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "due_date must be a date (YYYY-MM-DD)"))
			return
		}
		update.DueDate = &due
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"period": expense.Period})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// SetExpensePaid handles marking an expense paid or unpaid.
// @Summary     Set paid flag
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Expense ID"
// @Param       request body SetPaidRequest true "Paid flag"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/paid [patch]
func (h *ExpenseHandler) SetExpensePaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.SetExpensePaid(userID, expenseID, *req.IsPaid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_EXPENSE_PAID", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"is_paid": *req.IsPaid})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}
