package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPeriod is a span during which the user held an equity grant.
// A nil EndDate means the period is still open.
type StockPeriod struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Symbol     string          `gorm:"size:16;not null" json:"symbol"`
	Shares     decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"shares" swaggertype:"string"`
	GrantPrice decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"grant_price" swaggertype:"string"`
	Currency   string          `gorm:"size:3;not null" json:"currency"`
	StartDate  time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate    *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// ActiveOn reports whether the period covers day d.
func (s *StockPeriod) ActiveOn(d time.Time) bool {
	if d.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || !d.After(*s.EndDate)
}
