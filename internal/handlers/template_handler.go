package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/services"
)

// TemplateHandler handles recurring expense templates.
type TemplateHandler struct {
	templateService services.TemplateServicer
	auditService    services.AuditServicer
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService services.TemplateServicer, auditService services.AuditServicer) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, auditService: auditService}
}

// CreateTemplateRequest represents the request payload for a template.
type CreateTemplateRequest struct {
	Name    string          `json:"name" binding:"required,min=1,max=200"`
	Amounts []models.Amount `json:"amounts" binding:"required,min=1,dive"`
	DueDay  int             `json:"due_day" binding:"required,min=1,max=31"`
	Notes   string          `json:"notes" binding:"max=1000"`
}

// UpdateTemplateRequest represents the request payload for updating a template.
type UpdateTemplateRequest struct {
	Name    *string         `json:"name" binding:"omitempty,min=1,max=200"`
	Amounts []models.Amount `json:"amounts" binding:"omitempty,min=1,dive"`
	DueDay  *int            `json:"due_day" binding:"omitempty,min=1,max=31"`
	Notes   *string         `json:"notes" binding:"omitempty,max=1000"`
}

// CreateTemplate handles the creation of a template.
// @Summary     Create a template
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTemplateRequest true "Template"
// @Success     201 {object} models.Template "Template created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	template, err := h.templateService.CreateTemplate(userID, services.TemplateInput{
		Name:    req.Name,
		Amounts: req.Amounts,
		DueDay:  req.DueDay,
		Notes:   req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TEMPLATE", "template", template.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "due_day": req.DueDay})

	c.JSON(http.StatusCreated, gin.H{"template": template})
}

// GetTemplates handles listing templates.
// @Summary     Get templates
// @Description Paginated templates ordered by due day
// @Tags        templates
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Template] "Paginated templates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates [get]
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
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

	result, err := h.templateService.GetTemplates(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTemplate handles retrieving one template.
// @Summary     Get template by ID
// @Tags        templates
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} models.Template "Template"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	template, err := h.templateService.GetTemplateByID(userID, templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// UpdateTemplate handles updating a template.
// @Summary     Update a template
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Template ID"
// @Param       request body UpdateTemplateRequest true "Fields to update"
// @Success     200 {object} models.Template "Updated template"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	template, err := h.templateService.UpdateTemplate(userID, templateID, services.TemplateUpdate{
		Name:    req.Name,
		Amounts: req.Amounts,
		DueDay:  req.DueDay,
		Notes:   req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TEMPLATE", "template", template.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// DeleteTemplate handles deleting a template. The template is also removed
// from every group that references it.
// @Summary     Delete a template
// @Tags        templates
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} MessageResponse "Template deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.templateService.DeleteTemplate(userID, templateID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TEMPLATE", "template", templateID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Template deleted successfully"})
}
