package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "quincena/internal/errors"
	"quincena/internal/services"
)

// SalarySettingsHandler handles the user's recurring pay settings.
type SalarySettingsHandler struct {
	salarySettingsService services.SalarySettingsServicer
	auditService          services.AuditServicer
}

// NewSalarySettingsHandler creates a new SalarySettingsHandler.
func NewSalarySettingsHandler(salarySettingsService services.SalarySettingsServicer, auditService services.AuditServicer) *SalarySettingsHandler {
	return &SalarySettingsHandler{salarySettingsService: salarySettingsService, auditService: auditService}
}

// SalarySettingsRequest represents the salary settings upsert payload.
type SalarySettingsRequest struct {
	GrossAmount      decimal.Decimal `json:"gross_amount" swaggertype:"string"`
	NetAmount        decimal.Decimal `json:"net_amount" swaggertype:"string"`
	Currency         string          `json:"currency" binding:"required,iso4217"`
	PaymentsPerMonth int             `json:"payments_per_month" binding:"omitempty,min=1,max=4"`
}

// GetSalarySettings returns the user's salary settings.
// @Summary     Get salary settings
// @Tags        salary-settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.SalarySettings "Salary settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No salary settings stored"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-settings [get]
func (h *SalarySettingsHandler) GetSalarySettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.salarySettingsService.GetSalarySettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"salary_settings": settings})
}

// UpsertSalarySettings creates or replaces the user's salary settings.
// @Summary     Upsert salary settings
// @Tags        salary-settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SalarySettingsRequest true "Salary settings"
// @Success     200 {object} models.SalarySettings "Stored salary settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-settings [put]
func (h *SalarySettingsHandler) UpsertSalarySettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SalarySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.PaymentsPerMonth == 0 {
		req.PaymentsPerMonth = 1
	}

	settings, err := h.salarySettingsService.UpsertSalarySettings(userID, services.SalarySettingsInput{
		GrossAmount:      req.GrossAmount,
		NetAmount:        req.NetAmount,
		Currency:         req.Currency,
		PaymentsPerMonth: req.PaymentsPerMonth,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPSERT_SALARY_SETTINGS", "salary_settings", settings.ID, c.ClientIP(),
		map[string]interface{}{"currency": req.Currency, "payments_per_month": req.PaymentsPerMonth})

	c.JSON(http.StatusOK, gin.H{"salary_settings": settings})
}

// DeleteSalarySettings removes the user's salary settings.
// @Summary     Delete salary settings
// @Tags        salary-settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Salary settings deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No salary settings stored"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-settings [delete]
func (h *SalarySettingsHandler) DeleteSalarySettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.salarySettingsService.DeleteSalarySettings(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SALARY_SETTINGS", "salary_settings", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Salary settings deleted successfully"})
}
