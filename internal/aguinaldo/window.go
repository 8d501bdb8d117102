// Package aguinaldo selects the salary months that accrue one annual bonus.
//
// The aguinaldo paid for year Y accrues from December of Y-1 through
// November of Y. Its first installment covers December to May and is paid in
// June; the second covers June to November and is paid in December.
package aguinaldo

import (
	"time"

	"gorm.io/gorm"
)

// Window is the twelve-month accrual window of one aguinaldo year.
type Window struct {
	Year int
}

// NewWindow returns the window for the bonus paid in year.
func NewWindow(year int) Window {
	return Window{Year: year}
}

// Contains reports whether a salary for year/month belongs to the window.
func (w Window) Contains(year, month int) bool {
	if year == w.Year-1 && month == 12 {
		return true
	}
	return year == w.Year && month >= 1 && month <= 11
}

// Installment returns 1 for December to May, 2 for June to November and 0 for
// months outside the window.
func (w Window) Installment(year, month int) int {
	if !w.Contains(year, month) {
		return 0
	}
	if month == 12 || month <= 5 {
		return 1
	}
	return 2
}

// DateRange returns the half-open interval [from, to) covering the window,
// for rows keyed by a calendar date rather than year and month.
func (w Window) DateRange() (from, to time.Time) {
	from = time.Date(w.Year-1, time.December, 1, 0, 0, 0, 0, time.UTC)
	to = time.Date(w.Year, time.December, 1, 0, 0, 0, 0, time.UTC)
	return from, to
}

// ContainsDate reports whether t falls inside DateRange.
func (w Window) ContainsDate(t time.Time) bool {
	from, to := w.DateRange()
	return !t.Before(from) && t.Before(to)
}

// Scope restricts a query on a table with year, month and payment_number
// columns to the window, ordered chronologically. December of the previous
// year sorts first because its year is smaller.
func (w Window) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("((year = ? AND month = 12) OR (year = ? AND month BETWEEN 1 AND 11))", w.Year-1, w.Year).
			Order("year ASC").
			Order("month ASC").
			Order("payment_number ASC")
	}
}
