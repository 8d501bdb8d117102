package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/periods"
	"quincena/internal/services"
)

// SettingsHandler handles the per-user settings object.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// UpdateSettingsRequest represents the settings upsert payload. Omitted
// fields keep their current value.
type UpdateSettingsRequest struct {
	PaymentPeriods  *periods.List    `json:"payment_periods" swaggertype:"array,object"`
	Theme           *models.Theme    `json:"theme" binding:"omitempty,theme"`
	Language        *models.Language `json:"language" binding:"omitempty,language"`
	DefaultCurrency *string          `json:"default_currency" binding:"omitempty,iso4217"`
}

// PeriodResponse is the period label a date falls in.
type PeriodResponse struct {
	Date   string `json:"date"`
	Period string `json:"period"`
}

// GetSettings returns the user's settings.
// @Summary     Get settings
// @Description Get the authenticated user's settings. Defaults are returned when none are stored.
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserSettings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings creates or updates the user's settings.
// @Summary     Update settings
// @Description Upsert the authenticated user's settings. Changing the payment periods re-buckets every expense.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Settings fields"
// @Success     200 {object} models.UserSettings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input or payment periods"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if periods.IsParseError(err) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPaymentPeriods, err.Error()))
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateSettings(userID, services.SettingsUpdate{
		PaymentPeriods:  req.PaymentPeriods,
		Theme:           req.Theme,
		Language:        req.Language,
		DefaultCurrency: req.DefaultCurrency,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.PaymentPeriods != nil {
		changes["payment_periods"] = *req.PaymentPeriods
	}
	if req.Theme != nil {
		changes["theme"] = *req.Theme
	}
	if req.Language != nil {
		changes["language"] = *req.Language
	}
	if req.DefaultCurrency != nil {
		changes["default_currency"] = *req.DefaultCurrency
	}
	h.auditService.Log(userID, "UPDATE_SETTINGS", "user_settings", settings.ID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// ResolvePeriod returns the period label a date falls in.
// @Summary     Resolve payment period
// @Description Resolve the payment period label (YYYY-MM-N) of a date under the stored period configuration
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Param       date query string true "Date (YYYY-MM-DD)"
// @Success     200 {object} PeriodResponse "Period label"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/period [get]
func (h *SettingsHandler) ResolvePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseDateQuery(c, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if date == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required"))
		return
	}

	label, err := h.settingsService.ResolvePeriod(userID, *date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, PeriodResponse{Date: date.Format(dateLayout), Period: label})
}
