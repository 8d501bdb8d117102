package services

import (
	"time"

	"github.com/shopspring/decimal"

	"quincena/internal/aguinaldo"
	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/periods"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ClearRefreshTokenHash(userID string) error
}

// SettingsUpdate holds the optional fields of a settings upsert. Nil fields
// keep their stored (or default) value.
type SettingsUpdate struct {
	PaymentPeriods  *periods.List
	Theme           *models.Theme
	Language        *models.Language
	DefaultCurrency *string
}

// SettingsServicer defines the contract for per-user settings.
type SettingsServicer interface {
	GetSettings(userID string) (*models.UserSettings, error)
	UpdateSettings(userID string, update SettingsUpdate) (*models.UserSettings, error)
	ResolvePeriod(userID string, date time.Time) (string, error)
}

// ExpenseInput holds the fields of a new expense.
type ExpenseInput struct {
	Name       string
	DueDate    time.Time
	IsPaid     bool
	Amounts    []models.Amount
	Notes      string
	TemplateID *string
}

// ExpenseUpdate holds the optional fields of an expense update. A nil
// Amounts slice keeps the stored amounts.
type ExpenseUpdate struct {
	Name    *string
	DueDate *time.Time
	IsPaid  *bool
	Amounts []models.Amount
	Notes   *string
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Currency *string
	IsPaid   *bool
	Period   *string
}

// CurrencyTotal sums the expenses of one period in one currency.
type CurrencyTotal struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total" swaggertype:"string"`
	Paid     decimal.Decimal `json:"paid" swaggertype:"string"`
	Pending  decimal.Decimal `json:"pending" swaggertype:"string"`
}

// PeriodSummary groups expense totals by payment period label.
type PeriodSummary struct {
	Period   string          `json:"period"`
	Expenses int             `json:"expenses"`
	Totals   []CurrencyTotal `json:"totals"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, input ExpenseInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	SetExpensePaid(userID, expenseID string, paid bool) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetExpenseSummary(userID string, filter ExpenseFilter) ([]PeriodSummary, error)
}

// AguinaldoReport lists the payments of one aguinaldo window in
// chronological order together with the accrued bonus.
type AguinaldoReport[T any] struct {
	Year     int               `json:"year"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Payments []T               `json:"payments"`
	Summary  aguinaldo.Summary `json:"summary"`
}

// SalaryInput holds the fields of a salary upsert. Year, Month and
// PaymentNumber form the natural key.
type SalaryInput struct {
	Year          int
	Month         int
	PaymentNumber int
	GrossAmount   decimal.Decimal
	NetAmount     decimal.Decimal
	Currency      string
	Notes         string
}

// SalaryUpdate holds the optional non-key fields of a salary.
type SalaryUpdate struct {
	GrossAmount *decimal.Decimal
	NetAmount   *decimal.Decimal
	Currency    *string
	Notes       *string
}

// SalaryServicer defines the contract for year/month keyed salaries.
type SalaryServicer interface {
	UpsertSalary(userID string, input SalaryInput) (*models.Salary, error)
	GetSalaries(userID string, year int) ([]models.Salary, error)
	GetSalaryByID(userID, salaryID string) (*models.Salary, error)
	UpdateSalary(userID, salaryID string, update SalaryUpdate) (*models.Salary, error)
	DeleteSalary(userID, salaryID string) error
	GetAguinaldo(userID string, year int) (*AguinaldoReport[models.Salary], error)
}

// SalarySettingsInput holds the fields of a salary settings upsert.
type SalarySettingsInput struct {
	GrossAmount      decimal.Decimal
	NetAmount        decimal.Decimal
	Currency         string
	PaymentsPerMonth int
}

// SalarySettingsServicer defines the contract for the user's pay settings.
type SalarySettingsServicer interface {
	GetSalarySettings(userID string) (*models.SalarySettings, error)
	UpsertSalarySettings(userID string, input SalarySettingsInput) (*models.SalarySettings, error)
	DeleteSalarySettings(userID string) error
}

// SalaryRecordInput holds the fields of a new salary record.
type SalaryRecordInput struct {
	PaymentDate time.Time
	Amount      decimal.Decimal
	Currency    string
	Kind        models.SalaryRecordKind
	Notes       string
}

// SalaryRecordUpdate holds the optional fields of a salary record update.
type SalaryRecordUpdate struct {
	PaymentDate *time.Time
	Amount      *decimal.Decimal
	Currency    *string
	Kind        *models.SalaryRecordKind
	Notes       *string
}

// SalaryRecordServicer defines the contract for date-keyed salary records.
type SalaryRecordServicer interface {
	CreateSalaryRecord(userID string, input SalaryRecordInput) (*models.SalaryRecord, error)
	GetSalaryRecords(userID string, page pagination.PageRequest, from, to *time.Time) (*pagination.PageResponse[models.SalaryRecord], error)
	GetSalaryRecordByID(userID, recordID string) (*models.SalaryRecord, error)
	UpdateSalaryRecord(userID, recordID string, update SalaryRecordUpdate) (*models.SalaryRecord, error)
	DeleteSalaryRecord(userID, recordID string) error
	GetAguinaldo(userID string, year int) (*AguinaldoReport[models.SalaryRecord], error)
}

// StockPeriodInput holds the fields of a new stock period.
type StockPeriodInput struct {
	Symbol     string
	Shares     decimal.Decimal
	GrantPrice decimal.Decimal
	Currency   string
	StartDate  time.Time
	EndDate    *time.Time
	Notes      string
}

// StockPeriodUpdate holds the optional fields of a stock period update.
// ClearEndDate reopens the period.
type StockPeriodUpdate struct {
	Symbol       *string
	Shares       *decimal.Decimal
	GrantPrice   *decimal.Decimal
	Currency     *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Notes        *string
}

// StockPeriodServicer defines the contract for equity holding periods.
type StockPeriodServicer interface {
	CreateStockPeriod(userID string, input StockPeriodInput) (*models.StockPeriod, error)
	GetStockPeriods(userID string, page pagination.PageRequest, activeOn *time.Time) (*pagination.PageResponse[models.StockPeriod], error)
	GetStockPeriodByID(userID, periodID string) (*models.StockPeriod, error)
	UpdateStockPeriod(userID, periodID string, update StockPeriodUpdate) (*models.StockPeriod, error)
	DeleteStockPeriod(userID, periodID string) error
}

// TemplateInput holds the fields of a new template.
type TemplateInput struct {
	Name    string
	Amounts []models.Amount
	DueDay  int
	Notes   string
}

// TemplateUpdate holds the optional fields of a template update. A nil
// Amounts slice keeps the stored amounts.
type TemplateUpdate struct {
	Name    *string
	Amounts []models.Amount
	DueDay  *int
	Notes   *string
}

// TemplateServicer defines the contract for expense templates.
type TemplateServicer interface {
	CreateTemplate(userID string, input TemplateInput) (*models.Template, error)
	GetTemplates(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Template], error)
	GetTemplateByID(userID, templateID string) (*models.Template, error)
	UpdateTemplate(userID, templateID string, update TemplateUpdate) (*models.Template, error)
	DeleteTemplate(userID, templateID string) error
}

// TemplateGroupServicer defines the contract for template groups.
type TemplateGroupServicer interface {
	CreateTemplateGroup(userID, name string, templateIDs []string) (*models.TemplateGroup, error)
	GetTemplateGroups(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.TemplateGroup], error)
	GetTemplateGroupByID(userID, groupID string) (*models.TemplateGroup, error)
	UpdateTemplateGroup(userID, groupID string, name *string, templateIDs []string) (*models.TemplateGroup, error)
	DeleteTemplateGroup(userID, groupID string) error
	ApplyTemplateGroup(userID, groupID string, year int, month time.Month) ([]models.Expense, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
