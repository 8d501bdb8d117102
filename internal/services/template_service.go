package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
)

// templateService handles recurring expense templates.
type templateService struct {
	db *gorm.DB
}

// NewTemplateService creates a new TemplateServicer.
func NewTemplateService(db *gorm.DB) TemplateServicer {
	return &templateService{db: db}
}

func checkDueDay(day int) error {
	if day < 1 || day > 31 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "due_day must be between 1 and 31")
	}
	return nil
}

// CreateTemplate stores a new template.
func (s *templateService) CreateTemplate(userID string, input TemplateInput) (*models.Template, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if err := validateAmounts(input.Amounts); err != nil {
		return nil, err
	}
	if err := checkDueDay(input.DueDay); err != nil {
		return nil, err
	}

	template := &models.Template{
		UserID:  userID,
		Name:    strings.TrimSpace(input.Name),
		Amounts: models.AmountList(input.Amounts),
		DueDay:  input.DueDay,
		Notes:   input.Notes,
	}
	if err := s.db.Create(template).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return template, nil
}

// GetTemplates returns a page of the user's templates ordered by due day.
func (s *templateService) GetTemplates(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Template], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Template{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var templates []models.Template
	if err := base.Scopes(pagination.Paginate(page)).Order("due_day ASC").Order("name ASC").Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(templates, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTemplateByID returns a template by ID if it belongs to the user.
func (s *templateService) GetTemplateByID(userID, templateID string) (*models.Template, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var template models.Template
	if err := findOwned(s.db, &template, userID, templateID, apperrors.ErrTemplateNotFound); err != nil {
		return nil, err
	}
	return &template, nil
}

// UpdateTemplate applies the non-nil fields of update.
func (s *templateService) UpdateTemplate(userID, templateID string, update TemplateUpdate) (*models.Template, error) {
	template, err := s.GetTemplateByID(userID, templateID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be empty")
		}
		updates["name"] = name
	}
	if update.Amounts != nil {
		if err := validateAmounts(update.Amounts); err != nil {
			return nil, err
		}
		updates["amounts"] = models.AmountList(update.Amounts)
	}
	if update.DueDay != nil {
		if err := checkDueDay(*update.DueDay); err != nil {
			return nil, err
		}
		updates["due_day"] = *update.DueDay
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(template).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetTemplateByID(userID, templateID)
}

// DeleteTemplate soft-deletes a template and drops it from every group that
// references it.
func (s *templateService) DeleteTemplate(userID, templateID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var template models.Template
		if err := findOwned(tx, &template, userID, templateID, apperrors.ErrTemplateNotFound); err != nil {
			return err
		}

		var groups []models.TemplateGroup
		if err := tx.Where("user_id = ?", userID).Find(&groups).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, g := range groups {
			kept := make(models.IDList, 0, len(g.TemplateIDs))
			for _, id := range g.TemplateIDs {
				if id != template.ID {
					kept = append(kept, id)
				}
			}
			if len(kept) == len(g.TemplateIDs) {
				continue
			}
			if err := tx.Model(&models.TemplateGroup{}).Where("id = ?", g.ID).Update("template_ids", kept).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := tx.Delete(&template).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
