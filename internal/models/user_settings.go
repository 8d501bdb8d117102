package models

import "quincena/internal/periods"

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Language is the UI language preference.
type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
)

// DefaultCurrency is used until the user picks one.
const DefaultCurrency = "UYU"

// UserSettings holds the per-user preferences, including the configured
// payment periods used to bucket expenses.
type UserSettings struct {
	Base
	UserID          string       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	PaymentPeriods  periods.List `gorm:"type:text;not null" json:"payment_periods" swaggertype:"array,object"`
	Theme           Theme        `gorm:"size:10;not null;default:system" json:"theme"`
	Language        Language     `gorm:"size:5;not null;default:es" json:"language"`
	DefaultCurrency string       `gorm:"size:3;not null;default:UYU" json:"default_currency"`
}

// TableName overrides the pluralised default.
func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings returns the settings used when a user has none stored.
func DefaultUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:          userID,
		PaymentPeriods:  periods.List{},
		Theme:           ThemeSystem,
		Language:        LanguageSpanish,
		DefaultCurrency: DefaultCurrency,
	}
}
