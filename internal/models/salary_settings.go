package models

import "github.com/shopspring/decimal"

// SalarySettings describes the user's regular pay.
type SalarySettings struct {
	Base
	UserID           string          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	GrossAmount      decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"gross_amount" swaggertype:"string"`
	NetAmount        decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"net_amount" swaggertype:"string"`
	Currency         string          `gorm:"size:3;not null" json:"currency"`
	PaymentsPerMonth int             `gorm:"not null;default:1" json:"payments_per_month"`
}

// TableName overrides the pluralised default.
func (SalarySettings) TableName() string {
	return "salary_settings"
}
