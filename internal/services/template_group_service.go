package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/periods"
	"quincena/internal/uuid"
)

// templateGroupService handles template groups and their application.
type templateGroupService struct {
	db *gorm.DB
}

// NewTemplateGroupService creates a new TemplateGroupServicer.
func NewTemplateGroupService(db *gorm.DB) TemplateGroupServicer {
	return &templateGroupService{db: db}
}

// checkTemplateIDs verifies every id is a UUID listed once and names a
// template of userID.
func checkTemplateIDs(db *gorm.DB, userID string, ids []string) (models.IDList, error) {
	list := make(models.IDList, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for i, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("template_ids[%d] is not a UUID", i))
		}
		if seen[id] {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("template_ids[%d] is listed twice", i))
		}
		seen[id] = true
		list = append(list, id)
	}
	if len(list) == 0 {
		return list, nil
	}

	var count int64
	if err := db.Model(&models.Template{}).Where("user_id = ? AND id IN ?", userID, []string(list)).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count != int64(len(list)) {
		return nil, apperrors.ErrTemplateNotFound
	}
	return list, nil
}

// CreateTemplateGroup stores a new group over templateIDs.
func (s *templateGroupService) CreateTemplateGroup(userID, name string, templateIDs []string) (*models.TemplateGroup, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	list, err := checkTemplateIDs(s.db, userID, templateIDs)
	if err != nil {
		return nil, err
	}

	group := &models.TemplateGroup{
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		TemplateIDs: list,
	}
	if err := s.db.Create(group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return group, nil
}

// GetTemplateGroups returns a page of the user's groups ordered by name.
func (s *templateGroupService) GetTemplateGroups(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.TemplateGroup], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.TemplateGroup{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var groups []models.TemplateGroup
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&groups).Error; err != nil {
		if models.IsColumnError(err) {
			return nil, apperrors.WithMessage(apperrors.ErrInternalServer, "stored template group is malformed")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(groups, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTemplateGroupByID returns a group by ID if it belongs to the user.
func (s *templateGroupService) GetTemplateGroupByID(userID, groupID string) (*models.TemplateGroup, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var group models.TemplateGroup
	if err := findOwned(s.db, &group, userID, groupID, apperrors.ErrTemplateGroupNotFound); err != nil {
		return nil, err
	}
	return &group, nil
}

// UpdateTemplateGroup renames the group and/or replaces its template list.
// A nil templateIDs keeps the stored list.
func (s *templateGroupService) UpdateTemplateGroup(userID, groupID string, name *string, templateIDs []string) (*models.TemplateGroup, error) {
	group, err := s.GetTemplateGroupByID(userID, groupID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be empty")
		}
		updates["name"] = trimmed
	}
	if templateIDs != nil {
		list, err := checkTemplateIDs(s.db, userID, templateIDs)
		if err != nil {
			return nil, err
		}
		updates["template_ids"] = list
	}

	if len(updates) > 0 {
		if err := s.db.Model(group).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetTemplateGroupByID(userID, groupID)
}

// DeleteTemplateGroup soft-deletes a group. Its templates are kept.
func (s *templateGroupService) DeleteTemplateGroup(userID, groupID string) error {
	group, err := s.GetTemplateGroupByID(userID, groupID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(group).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ApplyTemplateGroup creates one unpaid expense per template of the group
// for year/month, in the group's template order. Each expense is due on the
// template's due day, clamped to the last day of the month. All expenses
// are created in one transaction.
func (s *templateGroupService) ApplyTemplateGroup(userID, groupID string, year int, month time.Month) ([]models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if year < 1900 || year > 9999 || month < time.January || month > time.December {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year or month is out of range")
	}

	var created []models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.TemplateGroup
		if err := findOwned(tx, &group, userID, groupID, apperrors.ErrTemplateGroupNotFound); err != nil {
			return err
		}
		if len(group.TemplateIDs) == 0 {
			created = []models.Expense{}
			return nil
		}

		var templates []models.Template
		if err := tx.Where("user_id = ? AND id IN ?", userID, []string(group.TemplateIDs)).Find(&templates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		byID := make(map[string]models.Template, len(templates))
		for _, t := range templates {
			byID[t.ID] = t
		}

		list, err := loadPeriods(tx, userID)
		if err != nil {
			return err
		}

		lastDay := lastDayOfMonth(year, month)
		created = make([]models.Expense, 0, len(group.TemplateIDs))
		for _, id := range group.TemplateIDs {
			t, ok := byID[id]
			if !ok {
				return apperrors.ErrTemplateNotFound
			}
			day := t.DueDay
			if day > lastDay {
				day = lastDay
			}
			due := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			templateID := t.ID
			created = append(created, models.Expense{
				UserID:     userID,
				Name:       t.Name,
				DueDate:    due,
				Period:     periods.Resolve(due, list),
				TemplateID: &templateID,
				Notes:      t.Notes,
				Amounts:    toExpenseAmounts(t.Amounts),
			})
		}

		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
