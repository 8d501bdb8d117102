package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/services"
)

// SalaryRecordHandler handles individual dated salary payments.
type SalaryRecordHandler struct {
	salaryRecordService services.SalaryRecordServicer
	auditService        services.AuditServicer
}

// NewSalaryRecordHandler creates a new SalaryRecordHandler.
func NewSalaryRecordHandler(salaryRecordService services.SalaryRecordServicer, auditService services.AuditServicer) *SalaryRecordHandler {
	return &SalaryRecordHandler{salaryRecordService: salaryRecordService, auditService: auditService}
}

// CreateSalaryRecordRequest represents the request payload for a salary record.
type CreateSalaryRecordRequest struct {
	PaymentDate string                  `json:"payment_date" binding:"required"`
	Amount      decimal.Decimal         `json:"amount" swaggertype:"string"`
	Currency    string                  `json:"currency" binding:"required,iso4217"`
	Kind        models.SalaryRecordKind `json:"kind" binding:"omitempty,salary_kind"`
	Notes       string                  `json:"notes" binding:"max=1000"`
}

// UpdateSalaryRecordRequest represents the request payload for updating a salary record.
type UpdateSalaryRecordRequest struct {
	PaymentDate *string                  `json:"payment_date"`
	Amount      *decimal.Decimal         `json:"amount" swaggertype:"string"`
	Currency    *string                  `json:"currency" binding:"omitempty,iso4217"`
	Kind        *models.SalaryRecordKind `json:"kind" binding:"omitempty,salary_kind"`
	Notes       *string                  `json:"notes" binding:"omitempty,max=1000"`
}

// CreateSalaryRecord handles recording a salary payment.
// @Summary     Create a salary record
// @Tags        salary-records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSalaryRecordRequest true "Salary record"
// @Success     201 {object} models.SalaryRecord "Salary record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-records [post]
func (h *SalaryRecordHandler) CreateSalaryRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSalaryRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment_date must be a date (YYYY-MM-DD)"))
		return
	}

	record, err := h.salaryRecordService.CreateSalaryRecord(userID, services.SalaryRecordInput{
		PaymentDate: paymentDate,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Kind:        req.Kind,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SALARY_RECORD", "salary_record", record.ID, c.ClientIP(),
		map[string]interface{}{"payment_date": req.PaymentDate, "kind": record.Kind})

	c.JSON(http.StatusCreated, gin.H{"salary_record": record})
}

// GetSalaryRecords handles listing salary records.
// @Summary     Get salary records
// @Description Paginated salary records, newest payment first
// @Tags        salary-records
// @Produce     json
// @Security    BearerAuth
// @Param       from      query string false "Paid on or after (YYYY-MM-DD)"
// @Param       to        query string false "Paid on or before (YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SalaryRecord] "Paginated salary records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-records [get]
func (h *SalaryRecordHandler) GetSalaryRecords(c *gin.Context) {
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

	from, err := parseDateQuery(c, "from")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.salaryRecordService.GetSalaryRecords(userID, page, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSalaryRecord handles retrieving one salary record.
// @Summary     Get salary record by ID
// @Tags        salary-records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Salary record ID"
// @Success     200 {object} models.SalaryRecord "Salary record"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Salary record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-records/{id} [get]
func (h *SalaryRecordHandler) GetSalaryRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.salaryRecordService.GetSalaryRecordByID(userID, recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"salary_record": record})
}

// UpdateSalaryRecord handles updating a salary record.
// @Summary     Update a salary record
// @Tags        salary-records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Salary record ID"
// @Param       request body UpdateSalaryRecordRequest true "Fields to update"
// @Success     200 {object} models.SalaryRecord "Updated salary record"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Salary record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-records/{id} [put]
func (h *SalaryRecordHandler) UpdateSalaryRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSalaryRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.SalaryRecordUpdate{
		Amount:   req.Amount,
		Currency: req.Currency,
		Kind:     req.Kind,
		Notes:    req.Notes,
	}
	if req.PaymentDate != nil {
		d, err := parseDate(*req.PaymentDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment_date must be a date (YYYY-MM-DD)"))
			return
		}
		update.PaymentDate = &d
	}

	record, err := h.salaryRecordService.UpdateSalaryRecord(userID, recordID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SALARY_RECORD", "salary_record", record.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"salary_record": record})
}

// DeleteSalaryRecord handles deleting a salary record.
// @Summary     Delete a salary record
// @Tags        salary-records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Salary record ID"
// @Success     200 {object} MessageResponse "Salary record deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Salary record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-records/{id} [delete]
func (h *SalaryRecordHandler) DeleteSalaryRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.salaryRecordService.DeleteSalaryRecord(userID, recordID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SALARY_RECORD", "salary_record", recordID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Salary record deleted successfully"})
}

// GetAguinaldo handles the salary records of one aguinaldo window.
// @Summary     Aguinaldo salary records
// @Description Records paid from December 1 of the previous year up to December 1, ordered by payment date, with the accrued bonus
// @Tags        salary-records
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Aguinaldo year"
// @Success     200 {object} services.AguinaldoReport[models.SalaryRecord] "Window payments and summary"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-records/aguinaldo/{year} [get]
func (h *SalaryRecordHandler) GetAguinaldo(c *gin.Context) {
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

	report, err := h.salaryRecordService.GetAguinaldo(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
