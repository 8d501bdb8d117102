package models

import "github.com/shopspring/decimal"

// Salary is one payment of a month, keyed by calendar year, month and the
// payment's sequence number inside the month.
type Salary struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;uniqueIndex:idx_salaries_natural_key,priority:1" json:"user_id"`
	Year          int             `gorm:"not null;uniqueIndex:idx_salaries_natural_key,priority:2" json:"year"`
	Month         int             `gorm:"not null;uniqueIndex:idx_salaries_natural_key,priority:3" json:"month"`
	PaymentNumber int             `gorm:"not null;default:1;uniqueIndex:idx_salaries_natural_key,priority:4" json:"payment_number"`
	GrossAmount   decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"gross_amount" swaggertype:"string"`
	NetAmount     decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"net_amount" swaggertype:"string"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	Notes         string          `json:"notes,omitempty"`
}
