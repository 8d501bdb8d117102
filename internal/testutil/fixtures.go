package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"quincena/internal/models"
	"quincena/internal/periods"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// HalfMonthPeriods is the common 1-15 / 16-31 configuration.
var HalfMonthPeriods = periods.List{
	{Period: 1, StartDay: 1, EndDay: 15},
	{Period: 2, StartDay: 16, EndDay: 31},
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestSettings stores settings with the given payment periods.
func CreateTestSettings(t *testing.T, db *gorm.DB, userID string, list periods.List) *models.UserSettings {
	t.Helper()

	settings := models.DefaultUserSettings(userID)
	settings.PaymentPeriods = list
	if err := db.Create(settings).Error; err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	return settings
}

// CreateTestExpense creates an unpaid expense with one amount. The period
// label is resolved against list.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, dueDate time.Time, currency string, amount int64, list periods.List) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:  userID,
		Name:    fmt.Sprintf("Expense %d", nextID()),
		DueDate: dueDate,
		Period:  periods.Resolve(dueDate, list),
		Amounts: []models.ExpenseAmount{{Currency: currency, Amount: decimal.NewFromInt(amount)}},
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestSalary creates a salary row for year/month/payment number.
func CreateTestSalary(t *testing.T, db *gorm.DB, userID string, year, month, paymentNumber int, gross int64) *models.Salary {
	t.Helper()

	salary := &models.Salary{
		UserID:        userID,
		Year:          year,
		Month:         month,
		PaymentNumber: paymentNumber,
		GrossAmount:   decimal.NewFromInt(gross),
		NetAmount:     decimal.NewFromInt(gross).Mul(decimal.RequireFromString("0.8")),
		Currency:      "UYU",
	}
	if err := db.Create(salary).Error; err != nil {
		t.Fatalf("failed to create test salary: %v", err)
	}
	return salary
}

// CreateTestSalaryRecord creates a salary record paid on date.
func CreateTestSalaryRecord(t *testing.T, db *gorm.DB, userID string, date time.Time, amount int64) *models.SalaryRecord {
	t.Helper()

	record := &models.SalaryRecord{
		UserID:      userID,
		PaymentDate: date,
		Amount:      decimal.NewFromInt(amount),
		Currency:    "UYU",
		Kind:        models.SalaryRecordKindSalary,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test salary record: %v", err)
	}
	return record
}

// CreateTestStockPeriod creates a stock period starting on start.
func CreateTestStockPeriod(t *testing.T, db *gorm.DB, userID string, start time.Time, end *time.Time) *models.StockPeriod {
	t.Helper()

	period := &models.StockPeriod{
		UserID:     userID,
		Symbol:     "MELI",
		Shares:     decimal.NewFromInt(10),
		GrantPrice: decimal.NewFromInt(1500),
		Currency:   "USD",
		StartDate:  start,
		EndDate:    end,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test stock period: %v", err)
	}
	return period
}

// CreateTestTemplate creates a template due on dueDay with one UYU amount.
func CreateTestTemplate(t *testing.T, db *gorm.DB, userID string, dueDay int, amount int64) *models.Template {
	t.Helper()

	template := &models.Template{
		UserID:  userID,
		Name:    fmt.Sprintf("Template %d", nextID()),
		Amounts: models.AmountList{{Currency: "UYU", Amount: decimal.NewFromInt(amount)}},
		DueDay:  dueDay,
	}
	if err := db.Create(template).Error; err != nil {
		t.Fatalf("failed to create test template: %v", err)
	}
	return template
}

// CreateTestTemplateGroup creates a group over templateIDs.
func CreateTestTemplateGroup(t *testing.T, db *gorm.DB, userID string, templateIDs ...string) *models.TemplateGroup {
	t.Helper()

	group := &models.TemplateGroup{
		UserID:      userID,
		Name:        fmt.Sprintf("Group %d", nextID()),
		TemplateIDs: models.IDList(templateIDs),
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test template group: %v", err)
	}
	return group
}
