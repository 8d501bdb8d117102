package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quincena/internal/aguinaldo"
	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/validator"
)

// salaryService handles salaries keyed by year, month and payment number.
type salaryService struct {
	db *gorm.DB
}

// NewSalaryService creates a new SalaryServicer.
func NewSalaryService(db *gorm.DB) SalaryServicer {
	return &salaryService{db: db}
}

func validateSalaryInput(input SalaryInput) error {
	switch {
	case input.Year < 1900 || input.Year > 9999:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	case input.Month < 1 || input.Month > 12:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	case input.PaymentNumber < 1:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "payment_number must be positive")
	case input.GrossAmount.IsNegative() || input.NetAmount.IsNegative():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amounts must not be negative")
	case !validator.IsISO4217(input.Currency):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
	}
	return nil
}

// UpsertSalary inserts the salary or, when a row with the same (user, year,
// month, payment_number) exists, overwrites its amounts. updated_at is set
// by the server on both paths.
func (s *salaryService) UpsertSalary(userID string, input SalaryInput) (*models.Salary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateSalaryInput(input); err != nil {
		return nil, err
	}

	row := &models.Salary{
		UserID:        userID,
		Year:          input.Year,
		Month:         input.Month,
		PaymentNumber: input.PaymentNumber,
		GrossAmount:   input.GrossAmount,
		NetAmount:     input.NetAmount,
		Currency:      input.Currency,
		Notes:         input.Notes,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "year"}, {Name: "month"}, {Name: "payment_number"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"gross_amount", "net_amount", "currency", "notes", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// On conflict the generated id was discarded; read the stored row back.
	var salary models.Salary
	err = s.db.Where("user_id = ? AND year = ? AND month = ? AND payment_number = ?",
		userID, input.Year, input.Month, input.PaymentNumber).First(&salary).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &salary, nil
}

// GetSalaries lists salaries of a calendar year, or all when year is 0.
func (s *salaryService) GetSalaries(userID string, year int) ([]models.Salary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	q := s.db.Where("user_id = ?", userID)
	if year != 0 {
		q = q.Where("year = ?", year)
	}
	salaries := []models.Salary{}
	if err := q.Order("year ASC").Order("month ASC").Order("payment_number ASC").Find(&salaries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return salaries, nil
}

// GetSalaryByID returns a salary by ID if it belongs to the user.
func (s *salaryService) GetSalaryByID(userID, salaryID string) (*models.Salary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var salary models.Salary
	if err := findOwned(s.db, &salary, userID, salaryID, apperrors.ErrSalaryNotFound); err != nil {
		return nil, err
	}
	return &salary, nil
}

// UpdateSalary changes the amounts, currency or notes of a salary. The
// natural key is immutable; upsert a new row to move a payment.
func (s *salaryService) UpdateSalary(userID, salaryID string, update SalaryUpdate) (*models.Salary, error) {
	salary, err := s.GetSalaryByID(userID, salaryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.GrossAmount != nil {
		if update.GrossAmount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "gross_amount must not be negative")
		}
		updates["gross_amount"] = *update.GrossAmount
	}
	if update.NetAmount != nil {
		if update.NetAmount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "net_amount must not be negative")
		}
		updates["net_amount"] = *update.NetAmount
	}
	if update.Currency != nil {
		if !validator.IsISO4217(*update.Currency) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
		}
		updates["currency"] = *update.Currency
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(salary).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetSalaryByID(userID, salaryID)
}

// DeleteSalary removes the row permanently so its natural key can be reused.
func (s *salaryService) DeleteSalary(userID, salaryID string) error {
	salary, err := s.GetSalaryByID(userID, salaryID)
	if err != nil {
		return err
	}
	if err := s.db.Unscoped().Delete(salary).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAguinaldo returns the salaries of the aguinaldo window of year in
// chronological order with the accrued bonus per currency.
func (s *salaryService) GetAguinaldo(userID string, year int) (*AguinaldoReport[models.Salary], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if year < 1901 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}

	window := aguinaldo.NewWindow(year)
	salaries := []models.Salary{}
	err := s.db.Where("user_id = ?", userID).Scopes(window.Scope()).Find(&salaries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := make([]aguinaldo.Entry, 0, len(salaries))
	for _, sal := range salaries {
		entries = append(entries, aguinaldo.Entry{
			Year: sal.Year, Month: sal.Month, Currency: sal.Currency, Amount: sal.GrossAmount,
		})
	}

	from, to := window.DateRange()
	return &AguinaldoReport[models.Salary]{
		Year:     year,
		From:     from.Format(dateLayout),
		To:       to.AddDate(0, 0, -1).Format(dateLayout),
		Payments: salaries,
		Summary:  aguinaldo.Summarize(window, entries),
	}, nil
}
