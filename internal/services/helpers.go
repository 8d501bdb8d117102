package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/validator"
)

// requireUser fails before any storage access when no session is present.
func requireUser(userID string) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// dateLayout is the wire format of calendar dates.
const dateLayout = "2006-01-02"

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// lastDayOfMonth returns the number of days in month.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// findOwned loads the row with id owned by userID into dest, mapping a
// missing row to notFound.
func findOwned(db *gorm.DB, dest interface{}, userID, id string, notFound *apperrors.AppError) error {
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// validateAmounts checks a non-empty list of non-negative amounts with one
// entry per currency.
func validateAmounts(amounts []models.Amount) error {
	if len(amounts) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one amount is required")
	}
	seen := make(map[string]bool, len(amounts))
	for i, a := range amounts {
		if !validator.IsISO4217(a.Currency) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("amounts[%d]: invalid currency %q", i, a.Currency))
		}
		if seen[a.Currency] {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("amounts[%d]: duplicate currency %s", i, a.Currency))
		}
		seen[a.Currency] = true
		if a.Amount.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("amounts[%d]: amount must not be negative", i))
		}
	}
	return nil
}
