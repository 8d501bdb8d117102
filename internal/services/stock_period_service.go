package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/validator"
)

// stockPeriodService handles equity holding periods.
type stockPeriodService struct {
	db *gorm.DB
}

// NewStockPeriodService creates a new StockPeriodServicer.
func NewStockPeriodService(db *gorm.DB) StockPeriodServicer {
	return &stockPeriodService{db: db}
}

func checkStockPeriod(p *models.StockPeriod) error {
	if !validator.IsStockSymbol(p.Symbol) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol must be a ticker such as MELI or BRK.B")
	}
	if !p.Shares.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "shares must be positive")
	}
	if p.GrantPrice.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "grant_price must not be negative")
	}
	if !validator.IsISO4217(p.Currency) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency")
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return apperrors.ErrInvalidDateRange
	}
	return nil
}

// CreateStockPeriod stores a new holding period.
func (s *stockPeriodService) CreateStockPeriod(userID string, input StockPeriodInput) (*models.StockPeriod, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	period := &models.StockPeriod{
		UserID:     userID,
		Symbol:     strings.ToUpper(strings.TrimSpace(input.Symbol)),
		Shares:     input.Shares,
		GrantPrice: input.GrantPrice,
		Currency:   input.Currency,
		StartDate:  dateOnly(input.StartDate),
		Notes:      input.Notes,
	}
	if input.EndDate != nil {
		end := dateOnly(*input.EndDate)
		period.EndDate = &end
	}
	if err := checkStockPeriod(period); err != nil {
		return nil, err
	}

	if err := s.db.Create(period).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return period, nil
}

// GetStockPeriods returns a page of the user's periods ordered by start
// date. With activeOn set only periods covering that day are returned.
func (s *stockPeriodService) GetStockPeriods(userID string, page pagination.PageRequest, activeOn *time.Time) (*pagination.PageResponse[models.StockPeriod], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.StockPeriod{}).Where("user_id = ?", userID)
	if activeOn != nil {
		d := dateOnly(*activeOn)
		base = base.Where("start_date <= ? AND (end_date IS NULL OR end_date >= ?)", d, d)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stockPeriods []models.StockPeriod
	if err := base.Scopes(pagination.Paginate(page)).Order("start_date ASC").Find(&stockPeriods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stockPeriods, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetStockPeriodByID returns a period by ID if it belongs to the user.
func (s *stockPeriodService) GetStockPeriodByID(userID, periodID string) (*models.StockPeriod, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var period models.StockPeriod
	if err := findOwned(s.db, &period, userID, periodID, apperrors.ErrStockPeriodNotFound); err != nil {
		return nil, err
	}
	return &period, nil
}

// UpdateStockPeriod applies the non-nil fields of update, then re-checks
// the whole row so start and end dates stay ordered.
func (s *stockPeriodService) UpdateStockPeriod(userID, periodID string, update StockPeriodUpdate) (*models.StockPeriod, error) {
	period, err := s.GetStockPeriodByID(userID, periodID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Symbol != nil {
		period.Symbol = strings.ToUpper(strings.TrimSpace(*update.Symbol))
		updates["symbol"] = period.Symbol
	}
	if update.Shares != nil {
		period.Shares = *update.Shares
		updates["shares"] = period.Shares
	}
	if update.GrantPrice != nil {
		period.GrantPrice = *update.GrantPrice
		updates["grant_price"] = period.GrantPrice
	}
	if update.Currency != nil {
		period.Currency = *update.Currency
		updates["currency"] = period.Currency
	}
	if update.StartDate != nil {
		period.StartDate = dateOnly(*update.StartDate)
		updates["start_date"] = period.StartDate
	}
	switch {
	case update.ClearEndDate:
		period.EndDate = nil
		updates["end_date"] = nil
	case update.EndDate != nil:
		end := dateOnly(*update.EndDate)
		period.EndDate = &end
		updates["end_date"] = end
	}
	if update.Notes != nil {
		period.Notes = *update.Notes
		updates["notes"] = period.Notes
	}

	if err := checkStockPeriod(period); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.StockPeriod{}).Where("id = ?", period.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetStockPeriodByID(userID, periodID)
}

// DeleteStockPeriod soft-deletes a period.
func (s *stockPeriodService) DeleteStockPeriod(userID, periodID string) error {
	period, err := s.GetStockPeriodByID(userID, periodID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(period).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
