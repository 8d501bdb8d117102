package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "quincena/internal/errors"
	"quincena/internal/services"
)

// SalaryHandler handles salaries keyed by year, month and payment number.
type SalaryHandler struct {
	salaryService services.SalaryServicer
	auditService  services.AuditServicer
}

// NewSalaryHandler creates a new SalaryHandler.
func NewSalaryHandler(salaryService services.SalaryServicer, auditService services.AuditServicer) *SalaryHandler {
	return &SalaryHandler{salaryService: salaryService, auditService: auditService}
}

// UpsertSalaryRequest represents the request payload for a salary upsert.
type UpsertSalaryRequest struct {
	Year          int             `json:"year" binding:"required,min=1900,max=9999"`
	Month         int             `json:"month" binding:"required,min=1,max=12"`
	PaymentNumber int             `json:"payment_number" binding:"omitempty,min=1,max=4"`
	GrossAmount   decimal.Decimal `json:"gross_amount" swaggertype:"string"`
	NetAmount     decimal.Decimal `json:"net_amount" swaggertype:"string"`
	Currency      string          `json:"currency" binding:"required,iso4217"`
	Notes         string          `json:"notes" binding:"max=1000"`
}

// UpdateSalaryRequest represents the request payload for updating a salary.
// The natural key cannot change.
type UpdateSalaryRequest struct {
	GrossAmount *decimal.Decimal `json:"gross_amount" swaggertype:"string"`
	NetAmount   *decimal.Decimal `json:"net_amount" swaggertype:"string"`
	Currency    *string          `json:"currency" binding:"omitempty,iso4217"`
	Notes       *string          `json:"notes" binding:"omitempty,max=1000"`
}

// UpsertSalary handles creating or replacing a salary.
// @Summary     Upsert a salary
// @Description Create the salary for (year, month, payment_number) or overwrite the existing one
// @Tags        salaries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertSalaryRequest true "Salary details"
// @Success     200 {object} models.Salary "Stored salary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salaries [put]
func (h *SalaryHandler) UpsertSalary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.PaymentNumber == 0 {
		req.PaymentNumber = 1
	}

	salary, err := h.salaryService.UpsertSalary(userID, services.SalaryInput{
		Year:          req.Year,
		Month:         req.Month,
		PaymentNumber: req.PaymentNumber,
		GrossAmount:   req.GrossAmount,
		NetAmount:     req.NetAmount,
		Currency:      req.Currency,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPSERT_SALARY", "salary", salary.ID, c.ClientIP(),
		map[string]interface{}{"year": req.Year, "month": req.Month, "payment_number": req.PaymentNumber})

	c.JSON(http.StatusOK, gin.H{"salary": salary})
}

// GetSalaries handles listing salaries.
// @Summary     Get salaries
// @Description List salaries in chronological order, optionally for one calendar year
// @Tags        salaries
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Calendar year"
// @Success     200 {array}  models.Salary "Salaries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salaries [get]
func (h *SalaryHandler) GetSalaries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year := 0
	if v := c.Query("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil || year < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be a positive integer"))
			return
		}
	}

	salaries, err := h.salaryService.GetSalaries(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"salaries": salaries})
}

// GetSalary handles retrieving one salary.
// @Summary     Get salary by ID
// @Tags        salaries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Salary ID"
// @Success     200 {object} models.Salary "Salary"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Salary not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salaries/{id} [get]
func (h *SalaryHandler) GetSalary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	salaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	salary, err := h.salaryService.GetSalaryByID(userID, salaryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"salary": salary})
}

// UpdateSalary handles updating the amounts of a salary.
// @Summary     Update a salary
// @Tags        salaries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Salary ID"
// @Param       request body UpdateSalaryRequest true "Fields to update"
// @Success     200 {object} models.Salary "Updated salary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Salary not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salaries/{id} [put]
func (h *SalaryHandler) UpdateSalary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	salaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	salary, err := h.salaryService.UpdateSalary(userID, salaryID, services.SalaryUpdate{
		GrossAmount: req.GrossAmount,
		NetAmount:   req.NetAmount,
		Currency:    req.Currency,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SALARY", "salary", salary.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"salary": salary})
}

// DeleteSalary handles deleting a salary.
// @Summary     Delete a salary
// @Tags        salaries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Salary ID"
// @Success     200 {object} MessageResponse "Salary deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Salary not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salaries/{id} [delete]
func (h *SalaryHandler) DeleteSalary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	salaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.salaryService.DeleteSalary(userID, salaryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SALARY", "salary", salaryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Salary deleted successfully"})
}

// GetAguinaldo handles the salaries of one aguinaldo window.
// @Summary     Aguinaldo salaries
// @Description Salaries from December of the previous year through November, in order, with the accrued bonus
// @Tags        salaries
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Aguinaldo year"
// @Success     200 {object} services.AguinaldoReport[models.Salary] "Window payments and summary"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salaries/aguinaldo/{year} [get]
func (h *SalaryHandler) GetAguinaldo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYearParam(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.salaryService.GetAguinaldo(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
