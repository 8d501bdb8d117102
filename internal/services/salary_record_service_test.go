package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"quincena/internal/models"
	"quincena/internal/pagination"
	"quincena/internal/testutil"
)

func TestCreateSalaryRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSalaryRecordService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("defaults_kind_to_salary", func(t *testing.T) {
		record, err := svc.CreateSalaryRecord(user.ID, SalaryRecordInput{
			PaymentDate: testutil.Date(2024, 2, 1),
			Amount:      decimal.NewFromInt(1000),
			Currency:    "UYU",
		})
		testutil.AssertNoError(t, err)
		if record.Kind != models.SalaryRecordKindSalary {
			t.Errorf("expected kind salary, got %s", record.Kind)
		}
	})

	t.Run("invalid_currency", func(t *testing.T) {
		_, err := svc.CreateSalaryRecord(user.ID, SalaryRecordInput{
			PaymentDate: testutil.Date(2024, 2, 1),
			Amount:      decimal.NewFromInt(1000),
			Currency:    "usd",
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_amount", func(t *testing.T) {
		_, err := svc.CreateSalaryRecord(user.ID, SalaryRecordInput{
			PaymentDate: testutil.Date(2024, 2, 1),
			Amount:      decimal.NewFromInt(-1),
			Currency:    "UYU",
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetSalaryRecords(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSalaryRecordService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2024, 1, 1), 100)
	testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2024, 2, 1), 100)
	testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2024, 3, 1), 100)
	testutil.CreateTestSalaryRecord(t, db, other.ID, testutil.Date(2024, 2, 1), 100)

	page := pagination.PageRequest{Page: 1, PageSize: 20}

	t.Run("newest_first", func(t *testing.T) {
		result, err := svc.GetSalaryRecords(user.ID, page, nil, nil)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Fatalf("expected 3 records, got %d", result.TotalItems)
		}
		if !result.Data[0].PaymentDate.Equal(testutil.Date(2024, 3, 1)) {
			t.Errorf("expected March first, got %s", result.Data[0].PaymentDate)
		}
	})

	t.Run("date_range", func(t *testing.T) {
		from := testutil.Date(2024, 2, 1)
		to := testutil.Date(2024, 3, 1)
		result, err := svc.GetSalaryRecords(user.ID, page, &from, &to)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 records, got %d", result.TotalItems)
		}
	})

	t.Run("inverted_range", func(t *testing.T) {
		from := testutil.Date(2024, 3, 1)
		to := testutil.Date(2024, 2, 1)
		_, err := svc.GetSalaryRecords(user.ID, page, &from, &to)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})
}

func TestUpdateAndDeleteSalaryRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSalaryRecordService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	record := testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2024, 1, 1), 100)

	t.Run("update_kind", func(t *testing.T) {
		kind := models.SalaryRecordKindBonus
		updated, err := svc.UpdateSalaryRecord(user.ID, record.ID, SalaryRecordUpdate{Kind: &kind})
		testutil.AssertNoError(t, err)
		if updated.Kind != models.SalaryRecordKindBonus {
			t.Errorf("expected kind bonus, got %s", updated.Kind)
		}
	})

	t.Run("other_user_cannot_delete", func(t *testing.T) {
		err := svc.DeleteSalaryRecord(other.ID, record.ID)
		testutil.AssertAppError(t, err, "SALARY_RECORD_NOT_FOUND")
	})

	t.Run("delete", func(t *testing.T) {
		testutil.AssertNoError(t, svc.DeleteSalaryRecord(user.ID, record.ID))
		_, err := svc.GetSalaryRecordByID(user.ID, record.ID)
		testutil.AssertAppError(t, err, "SALARY_RECORD_NOT_FOUND")
	})
}

func TestSalaryRecordGetAguinaldo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSalaryRecordService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2024, 7, 1), 2400)
	testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2023, 12, 1), 1200)
	testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2023, 11, 30), 9999)
	testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2024, 12, 1), 9999)
	bonus := testutil.CreateTestSalaryRecord(t, db, user.ID, testutil.Date(2024, 6, 20), 5000)
	db.Model(bonus).Update("kind", models.SalaryRecordKindAguinaldo)

	report, err := svc.GetAguinaldo(user.ID, 2024)
	testutil.AssertNoError(t, err)

	if len(report.Payments) != 3 {
		t.Fatalf("expected 3 payments in window, got %d", len(report.Payments))
	}
	if !report.Payments[0].PaymentDate.Equal(testutil.Date(2023, 12, 1)) {
		t.Errorf("expected oldest first, got %s", report.Payments[0].PaymentDate)
	}
	if report.Summary.Payments != 2 {
		t.Errorf("expected aguinaldo payments excluded from summary, got %d", report.Summary.Payments)
	}

	uyu := report.Summary.Currencies[0]
	if !uyu.Accrued.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected accrued 300, got %s", uyu.Accrued)
	}
	if !uyu.FirstInstallment.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected first installment 100, got %s", uyu.FirstInstallment)
	}
}
