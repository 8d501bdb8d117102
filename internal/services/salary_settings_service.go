package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/validator"
)

// salarySettingsService handles the single pay-settings row of a user.
type salarySettingsService struct {
	db *gorm.DB
}

// NewSalarySettingsService creates a new SalarySettingsServicer.
func NewSalarySettingsService(db *gorm.DB) SalarySettingsServicer {
	return &salarySettingsService{db: db}
}

// GetSalarySettings returns the user's pay settings.
func (s *salarySettingsService) GetSalarySettings(userID string) (*models.SalarySettings, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var settings models.SalarySettings
	if err := s.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSalarySettingsNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpsertSalarySettings creates or replaces the pay settings keyed on user_id.
func (s *salarySettingsService) UpsertSalarySettings(userID string, input SalarySettingsInput) (*models.SalarySettings, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	switch {
	case input.GrossAmount.IsNegative() || input.NetAmount.IsNegative():
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amounts must not be negative")
	case input.NetAmount.GreaterThan(input.GrossAmount):
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "net_amount must not exceed gross_amount")
	case !validator.IsISO4217(input.Currency):
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
	case input.PaymentsPerMonth < 1 || input.PaymentsPerMonth > 4:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payments_per_month must be between 1 and 4")
	}

	// Soft-deleted rows still hold the unique user_id, so they are purged
	// before the upsert.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ? AND deleted_at IS NOT NULL", userID).
			Delete(&models.SalarySettings{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		row := &models.SalarySettings{
			UserID:           userID,
			GrossAmount:      input.GrossAmount,
			NetAmount:        input.NetAmount,
			Currency:         input.Currency,
			PaymentsPerMonth: input.PaymentsPerMonth,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"gross_amount", "net_amount", "currency", "payments_per_month", "updated_at"}),
		}).Create(row).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetSalarySettings(userID)
}

// DeleteSalarySettings removes the user's pay settings.
func (s *salarySettingsService) DeleteSalarySettings(userID string) error {
	settings, err := s.GetSalarySettings(userID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(settings).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
