package services

import (
	"time"

	"gorm.io/gorm"

	"quincena/internal/aguinaldo"
	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/validator"
)

// salaryRecordService handles salary payments keyed by payment date.
type salaryRecordService struct {
	db *gorm.DB
}

// NewSalaryRecordService creates a new SalaryRecordServicer.
func NewSalaryRecordService(db *gorm.DB) SalaryRecordServicer {
	return &salaryRecordService{db: db}
}

// CreateSalaryRecord stores a received payment.
func (s *salaryRecordService) CreateSalaryRecord(userID string, input SalaryRecordInput) (*models.SalaryRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if input.Amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if !validator.IsISO4217(input.Currency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
	}
	kind := input.Kind
	if kind == "" {
		kind = models.SalaryRecordKindSalary
	}

	record := &models.SalaryRecord{
		UserID:      userID,
		PaymentDate: dateOnly(input.PaymentDate),
		Amount:      input.Amount,
		Currency:    input.Currency,
		Kind:        kind,
		Notes:       input.Notes,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// GetSalaryRecords returns a page of records paid within [from, to], newest
// first.
func (s *salaryRecordService) GetSalaryRecords(userID string, page pagination.PageRequest, from, to *time.Time) (*pagination.PageResponse[models.SalaryRecord], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.ErrInvalidDateRange
	}
	page.Defaults()

	base := s.db.Model(&models.SalaryRecord{}).Where("user_id = ?", userID)
	if from != nil {
		base = base.Where("payment_date >= ?", dateOnly(*from))
	}
	if to != nil {
		base = base.Where("payment_date <= ?", dateOnly(*to))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.SalaryRecord
	if err := base.Scopes(pagination.Paginate(page)).Order("payment_date DESC").Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSalaryRecordByID returns a record by ID if it belongs to the user.
func (s *salaryRecordService) GetSalaryRecordByID(userID, recordID string) (*models.SalaryRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var record models.SalaryRecord
	if err := findOwned(s.db, &record, userID, recordID, apperrors.ErrSalaryRecordNotFound); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateSalaryRecord applies the non-nil fields of update.
func (s *salaryRecordService) UpdateSalaryRecord(userID, recordID string, update SalaryRecordUpdate) (*models.SalaryRecord, error) {
	record, err := s.GetSalaryRecordByID(userID, recordID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.PaymentDate != nil {
		updates["payment_date"] = dateOnly(*update.PaymentDate)
	}
	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *update.Amount
	}
	if update.Currency != nil {
		if !validator.IsISO4217(*update.Currency) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
		}
		updates["currency"] = *update.Currency
	}
	if update.Kind != nil {
		updates["kind"] = *update.Kind
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(record).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetSalaryRecordByID(userID, recordID)
}

// DeleteSalaryRecord soft-deletes a record.
func (s *salaryRecordService) DeleteSalaryRecord(userID, recordID string) error {
	record, err := s.GetSalaryRecordByID(userID, recordID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAguinaldo returns the records paid inside the aguinaldo window of
// year, oldest first, with the accrued bonus. Aguinaldo payments themselves
// do not accrue and are left out of the summary.
func (s *salaryRecordService) GetAguinaldo(userID string, year int) (*AguinaldoReport[models.SalaryRecord], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if year < 1901 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}

	window := aguinaldo.NewWindow(year)
	from, to := window.DateRange()

	records := []models.SalaryRecord{}
	err := s.db.Where("user_id = ? AND payment_date >= ? AND payment_date < ?", userID, from, to).
		Order("payment_date ASC").Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := make([]aguinaldo.Entry, 0, len(records))
	for _, r := range records {
		if r.Kind == models.SalaryRecordKindAguinaldo {
			continue
		}
		entries = append(entries, aguinaldo.Entry{
			Year:     r.PaymentDate.Year(),
			Month:    int(r.PaymentDate.Month()),
			Currency: r.Currency,
			Amount:   r.Amount,
		})
	}

	return &AguinaldoReport[models.SalaryRecord]{
		Year:     year,
		From:     from.Format(dateLayout),
		To:       to.AddDate(0, 0, -1).Format(dateLayout),
		Payments: records,
		Summary:  aguinaldo.Summarize(window, entries),
	}, nil
}
