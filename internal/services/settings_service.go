package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/periods"
)

// settingsService handles the per-user settings row.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// loadSettings returns the stored settings of userID, or the defaults when
// the user has never saved any.
func loadSettings(db *gorm.DB, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultUserSettings(userID), nil
	}
	if err != nil {
		if periods.IsParseError(err) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidPaymentPeriods, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// loadPeriods returns the full configured period list of userID. The list
// is read on every call and never cached.
func loadPeriods(db *gorm.DB, userID string) (periods.List, error) {
	settings, err := loadSettings(db, userID)
	if err != nil {
		return nil, err
	}
	return settings.PaymentPeriods, nil
}

// GetSettings returns the user's settings, defaults included.
func (s *settingsService) GetSettings(userID string) (*models.UserSettings, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return loadSettings(s.db, userID)
}

// UpdateSettings upserts the settings row keyed on user_id. When the period
// list changes every expense of the user is re-bucketed in the same
// transaction.
func (s *settingsService) UpdateSettings(userID string, update SettingsUpdate) (*models.UserSettings, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if update.PaymentPeriods != nil {
		if err := update.PaymentPeriods.Validate(); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidPaymentPeriods, err.Error())
		}
	}

	var result *models.UserSettings
	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := loadSettings(tx, userID)
		if err != nil {
			return err
		}

		next := models.UserSettings{
			UserID:          userID,
			PaymentPeriods:  current.PaymentPeriods,
			Theme:           current.Theme,
			Language:        current.Language,
			DefaultCurrency: current.DefaultCurrency,
		}
		periodsChanged := false
		if update.PaymentPeriods != nil {
			periodsChanged = !current.PaymentPeriods.Equal(*update.PaymentPeriods)
			next.PaymentPeriods = *update.PaymentPeriods
		}
		if update.Theme != nil {
			next.Theme = *update.Theme
		}
		if update.Language != nil {
			next.Language = *update.Language
		}
		if update.DefaultCurrency != nil {
			next.DefaultCurrency = *update.DefaultCurrency
		}

		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payment_periods", "theme", "language", "default_currency", "updated_at"}),
		}).Create(&next).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if periodsChanged {
			if err := rebucketExpenses(tx, userID, next.PaymentPeriods); err != nil {
				return err
			}
		}

		result, err = loadSettings(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ResolvePeriod returns the period label of date under the user's
// configured periods.
func (s *settingsService) ResolvePeriod(userID string, date time.Time) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	list, err := loadPeriods(s.db, userID)
	if err != nil {
		return "", err
	}
	return periods.Resolve(date, list), nil
}

// rebucketExpenses recomputes the period label of every expense of userID
// and writes the ones that changed.
func rebucketExpenses(tx *gorm.DB, userID string, list periods.List) error {
	var rows []struct {
		ID      string
		DueDate time.Time
		Period  string
	}
	if err := tx.Model(&models.Expense{}).Select("id", "due_date", "period").
		Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, row := range rows {
		label := periods.Resolve(row.DueDate, list)
		if label == row.Period {
			continue
		}
		if err := tx.Model(&models.Expense{}).Where("id = ?", row.ID).Update("period", label).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}
