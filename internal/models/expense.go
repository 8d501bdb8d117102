package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a bill due on a date, bucketed into a payment period.
type Expense struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string          `gorm:"not null" json:"name"`
	DueDate    time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	IsPaid     bool            `gorm:"not null;default:false" json:"is_paid"`
	Period     string          `gorm:"size:16;not null;index" json:"period"`
	TemplateID *string         `gorm:"type:uuid" json:"template_id,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Amounts    []ExpenseAmount `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE" json:"amounts"`
}

// ExpenseAmount is the part of an expense owed in one currency.
type ExpenseAmount struct {
	Base
	ExpenseID string          `gorm:"type:uuid;not null;index" json:"-"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount" swaggertype:"string"`
}
