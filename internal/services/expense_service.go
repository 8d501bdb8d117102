package services

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "quincena/internal/errors"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/periods"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

func preloadAmounts(db *gorm.DB) *gorm.DB {
	return db.Preload("Amounts", func(db *gorm.DB) *gorm.DB {
		return db.Order("currency ASC")
	})
}

func toExpenseAmounts(amounts []models.Amount) []models.ExpenseAmount {
	out := make([]models.ExpenseAmount, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, models.ExpenseAmount{Currency: a.Currency, Amount: a.Amount})
	}
	return out
}

// CreateExpense creates an expense and its amounts. The period label is
// derived from the due date and the user's configured periods.
func (s *expenseService) CreateExpense(userID string, input ExpenseInput) (*models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if err := validateAmounts(input.Amounts); err != nil {
		return nil, err
	}

	var expense *models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		list, err := loadPeriods(tx, userID)
		if err != nil {
			return err
		}
		due := dateOnly(input.DueDate)
		expense = &models.Expense{
			UserID:     userID,
			Name:       strings.TrimSpace(input.Name),
			DueDate:    due,
			IsPaid:     input.IsPaid,
			Period:     periods.Resolve(due, list),
			TemplateID: input.TemplateID,
			Notes:      input.Notes,
			Amounts:    toExpenseAmounts(input.Amounts),
		}
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) filtered(userID string, filter ExpenseFilter) *gorm.DB {
	q := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.From != nil {
		q = q.Where("due_date >= ?", dateOnly(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("due_date <= ?", dateOnly(*filter.To))
	}
	if filter.IsPaid != nil {
		q = q.Where("is_paid = ?", *filter.IsPaid)
	}
	if filter.Period != nil {
		q = q.Where("period = ?", *filter.Period)
	}
	if filter.Currency != nil {
		q = q.Where("EXISTS (SELECT 1 FROM expense_amounts ea WHERE ea.expense_id = expenses.id AND ea.currency = ? AND ea.deleted_at IS NULL)", *filter.Currency)
	}
	return q
}

// GetUserExpenses returns a page of the user's expenses ordered by due date.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	page.Defaults()

	var totalItems int64
	if err := s.filtered(userID, filter).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	err := s.filtered(userID, filter).
		Scopes(preloadAmounts, pagination.Paginate(page)).
		Order("due_date ASC").Order("created_at ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var expense models.Expense
	if err := findOwned(s.db.Scopes(preloadAmounts), &expense, userID, expenseID, apperrors.ErrExpenseNotFound); err != nil {
		return nil, err
	}
	return &expense, nil
}

// UpdateExpense applies the non-nil fields of update. A new due date moves
// the expense to the period it now falls in. New amounts replace the
// stored ones.
func (s *expenseService) UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be empty")
	}
	if update.Amounts != nil {
		if err := validateAmounts(update.Amounts); err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		if err := findOwned(tx, &expense, userID, expenseID, apperrors.ErrExpenseNotFound); err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if update.Name != nil {
			updates["name"] = strings.TrimSpace(*update.Name)
		}
		if update.IsPaid != nil {
			updates["is_paid"] = *update.IsPaid
		}
		if update.Notes != nil {
			updates["notes"] = *update.Notes
		}
		if update.DueDate != nil {
			list, err := loadPeriods(tx, userID)
			if err != nil {
				return err
			}
			due := dateOnly(*update.DueDate)
			updates["due_date"] = due
			updates["period"] = periods.Resolve(due, list)
		}

		if len(updates) > 0 {
			if err := tx.Model(&expense).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if update.Amounts != nil {
			if err := tx.Unscoped().Where("expense_id = ?", expense.ID).Delete(&models.ExpenseAmount{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			amounts := toExpenseAmounts(update.Amounts)
			for i := range amounts {
				amounts[i].ExpenseID = expense.ID
			}
			if err := tx.Create(&amounts).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetExpenseByID(userID, expenseID)
}

// SetExpensePaid marks the expense paid or unpaid.
func (s *expenseService) SetExpensePaid(userID, expenseID string, paid bool) (*models.Expense, error) {
	return s.UpdateExpense(userID, expenseID, ExpenseUpdate{IsPaid: &paid})
}

// DeleteExpense soft-deletes an expense together with its amounts.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		if err := findOwned(tx, &expense, userID, expenseID, apperrors.ErrExpenseNotFound); err != nil {
			return err
		}
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseAmount{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetExpenseSummary totals the filtered expenses per period and currency.
// Periods are returned in chronological order and currencies alphabetically.
func (s *expenseService) GetExpenseSummary(userID string, filter ExpenseFilter) ([]PeriodSummary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := s.filtered(userID, filter).Scopes(preloadAmounts).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type bucket struct {
		count  int
		totals map[string]*CurrencyTotal
	}
	buckets := make(map[string]*bucket)
	for _, e := range expenses {
		b, ok := buckets[e.Period]
		if !ok {
			b = &bucket{totals: make(map[string]*CurrencyTotal)}
			buckets[e.Period] = b
		}
		b.count++
		for _, a := range e.Amounts {
			if filter.Currency != nil && a.Currency != *filter.Currency {
				continue
			}
			ct, ok := b.totals[a.Currency]
			if !ok {
				ct = &CurrencyTotal{Currency: a.Currency, Total: decimal.Zero, Paid: decimal.Zero, Pending: decimal.Zero}
				b.totals[a.Currency] = ct
			}
			ct.Total = ct.Total.Add(a.Amount)
			if e.IsPaid {
				ct.Paid = ct.Paid.Add(a.Amount)
			} else {
				ct.Pending = ct.Pending.Add(a.Amount)
			}
		}
	}

	summaries := make([]PeriodSummary, 0, len(buckets))
	for label, b := range buckets {
		totals := make([]CurrencyTotal, 0, len(b.totals))
		for _, ct := range b.totals {
			totals = append(totals, *ct)
		}
		sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })
		summaries = append(summaries, PeriodSummary{Period: label, Expenses: b.count, Totals: totals})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return periods.LessLabel(summaries[i].Period, summaries[j].Period)
	})
	return summaries, nil
}
