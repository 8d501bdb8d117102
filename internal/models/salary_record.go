package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRecordKind classifies a received payment.
type SalaryRecordKind string

const (
	SalaryRecordKindSalary    SalaryRecordKind = "salary"
	SalaryRecordKindAguinaldo SalaryRecordKind = "aguinaldo"
	SalaryRecordKindBonus     SalaryRecordKind = "bonus"
	SalaryRecordKindOther     SalaryRecordKind = "other"
)

// SalaryRecord is a payment actually received on a date.
type SalaryRecord struct {
	Base
	UserID      string           `gorm:"type:uuid;not null;index" json:"user_id"`
	PaymentDate time.Time        `gorm:"type:date;not null;index" json:"payment_date"`
	Amount      decimal.Decimal  `gorm:"type:numeric(20,4);not null" json:"amount" swaggertype:"string"`
	Currency    string           `gorm:"size:3;not null" json:"currency"`
	Kind        SalaryRecordKind `gorm:"size:16;not null;default:salary" json:"kind"`
	Notes       string           `json:"notes,omitempty"`
}
