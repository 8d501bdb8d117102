package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "quincena/internal/errors"
	"quincena/internal/pagination"
	"quincena/internal/services"
)

// TemplateGroupHandler handles template groups and applying them to a month.
type TemplateGroupHandler struct {
	templateGroupService services.TemplateGroupServicer
	auditService         services.AuditServicer
}

// NewTemplateGroupHandler creates a new TemplateGroupHandler.
func NewTemplateGroupHandler(templateGroupService services.TemplateGroupServicer, auditService services.AuditServicer) *TemplateGroupHandler {
	return &TemplateGroupHandler{templateGroupService: templateGroupService, auditService: auditService}
}

// CreateTemplateGroupRequest represents the request payload for a template group.
type CreateTemplateGroupRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=200"`
	TemplateIDs []string `json:"template_ids" binding:"required,dive,uuid"`
}

// UpdateTemplateGroupRequest represents the request payload for updating a
// template group. A present template_ids list replaces the stored one.
type UpdateTemplateGroupRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=200"`
	TemplateIDs []string `json:"template_ids" binding:"omitempty,dive,uuid"`
}

// ApplyTemplateGroupRequest selects the month expenses are created in.
type ApplyTemplateGroupRequest struct {
	Year  int `json:"year" binding:"required,min=1900,max=9999"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// CreateTemplateGroup handles the creation of a template group.
// @Summary     Create a template group
// @Tags        template-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTemplateGroupRequest true "Template group"
// @Success     201 {object} models.TemplateGroup "Template group created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /template-groups [post]
func (h *TemplateGroupHandler) CreateTemplateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTemplateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.templateGroupService.CreateTemplateGroup(userID, req.Name, req.TemplateIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TEMPLATE_GROUP", "template_group", group.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "template_ids": req.TemplateIDs})

	c.JSON(http.StatusCreated, gin.H{"template_group": group})
}

// GetTemplateGroups handles listing template groups.
// @Summary     Get template groups
// @Tags        template-groups
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.TemplateGroup] "Paginated template groups"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /template-groups [get]
func (h *TemplateGroupHandler) GetTemplateGroups(c *gin.Context) {
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

	result, err := h.templateGroupService.GetTemplateGroups(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTemplateGroup handles retrieving one template group.
// @Summary     Get template group by ID
// @Tags        template-groups
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template group ID"
// @Success     200 {object} models.TemplateGroup "Template group"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /template-groups/{id} [get]
func (h *TemplateGroupHandler) GetTemplateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	group, err := h.templateGroupService.GetTemplateGroupByID(userID, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template_group": group})
}

// UpdateTemplateGroup handles updating a template group.
// @Summary     Update a template group
// @Tags        template-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                     true "Template group ID"
// @Param       request body UpdateTemplateGroupRequest true "Fields to update"
// @Success     200 {object} models.TemplateGroup "Updated template group"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template group or template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /template-groups/{id} [put]
func (h *TemplateGroupHandler) UpdateTemplateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTemplateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.templateGroupService.UpdateTemplateGroup(userID, groupID, req.Name, req.TemplateIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TEMPLATE_GROUP", "template_group", group.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"template_group": group})
}

// DeleteTemplateGroup handles deleting a template group.
// @Summary     Delete a template group
// @Tags        template-groups
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template group ID"
// @Success     200 {object} MessageResponse "Template group deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /template-groups/{id} [delete]
func (h *TemplateGroupHandler) DeleteTemplateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.templateGroupService.DeleteTemplateGroup(userID, groupID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TEMPLATE_GROUP", "template_group", groupID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Template group deleted successfully"})
}

// ApplyTemplateGroup creates the month's expenses from a template group.
// @Summary     Apply a template group
// @Description Create one unpaid expense per template in the group, due on the template's day clamped to the month's length
// @Tags        template-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Template group ID"
// @Param       request body ApplyTemplateGroupRequest true "Target month"
// @Success     201 {array}  models.Expense "Created expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /template-groups/{id}/apply [post]
func (h *TemplateGroupHandler) ApplyTemplateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ApplyTemplateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expenses, err := h.templateGroupService.ApplyTemplateGroup(userID, groupID, req.Year, time.Month(req.Month))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "APPLY_TEMPLATE_GROUP", "template_group", groupID, c.ClientIP(),
		map[string]interface{}{"year": req.Year, "month": req.Month, "expenses": len(expenses)})

	c.JSON(http.StatusCreated, gin.H{"expenses": expenses})
}
