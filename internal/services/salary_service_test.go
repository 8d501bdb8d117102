package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"quincena/internal/models"
	"quincena/internal/testutil"
)

func salaryInput(year, month, payment int, gross int64) SalaryInput {
	return SalaryInput{
		Year:          year,
		Month:         month,
		PaymentNumber: payment,
		GrossAmount:   decimal.NewFromInt(gross),
		NetAmount:     decimal.NewFromInt(gross * 8 / 10),
		Currency:      "UYU",
	}
}

func TestUpsertSalary(t *testing.T) {
	t.Run("same_natural_key_updates_in_place", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSalaryService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.UpsertSalary(user.ID, salaryInput(2024, 3, 1, 50000))
		testutil.AssertNoError(t, err)

		second, err := svc.UpsertSalary(user.ID, salaryInput(2024, 3, 1, 55000))
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected the same row, got ids %s and %s", first.ID, second.ID)
		}
		if !second.GrossAmount.Equal(decimal.NewFromInt(55000)) {
			t.Errorf("expected gross 55000, got %s", second.GrossAmount)
		}
		if second.UpdatedAt.Before(first.UpdatedAt) {
			t.Error("expected updated_at to move forward")
		}

		var count int64
		db.Model(&models.Salary{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 row, got %d", count)
		}
	})

	t.Run("different_payment_number_is_new_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSalaryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpsertSalary(user.ID, salaryInput(2024, 3, 1, 50000))
		testutil.AssertNoError(t, err)
		_, err = svc.UpsertSalary(user.ID, salaryInput(2024, 3, 2, 50000))
		testutil.AssertNoError(t, err)

		salaries, err := svc.GetSalaries(user.ID, 2024)
		testutil.AssertNoError(t, err)
		if len(salaries) != 2 {
			t.Errorf("expected 2 salaries, got %d", len(salaries))
		}
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSalaryService(db)
		user := testutil.CreateTestUser(t, db)

		badMonth := salaryInput(2024, 13, 1, 1)
		badPayment := salaryInput(2024, 1, 0, 1)
		badCurrency := salaryInput(2024, 1, 1, 1)
		badCurrency.Currency = "XYZ"
		negative := salaryInput(2024, 1, 1, -5)

		for _, input := range []SalaryInput{badMonth, badPayment, badCurrency, negative} {
			_, err := svc.UpsertSalary(user.ID, input)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})

	t.Run("no_session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSalaryService(db)

		_, err := svc.UpsertSalary("", salaryInput(2024, 1, 1, 1))
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}

func TestGetSalaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSalaryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestSalary(t, db, user.ID, 2024, 5, 1, 100)
	testutil.CreateTestSalary(t, db, user.ID, 2024, 2, 1, 100)
	testutil.CreateTestSalary(t, db, user.ID, 2023, 12, 1, 100)
	testutil.CreateTestSalary(t, db, other.ID, 2024, 1, 1, 100)

	t.Run("by_year", func(t *testing.T) {
		salaries, err := svc.GetSalaries(user.ID, 2024)
		testutil.AssertNoError(t, err)
		if len(salaries) != 2 {
			t.Fatalf("expected 2 salaries, got %d", len(salaries))
		}
		if salaries[0].Month != 2 || salaries[1].Month != 5 {
			t.Errorf("expected months 2 then 5, got %d then %d", salaries[0].Month, salaries[1].Month)
		}
	})

	t.Run("all_years", func(t *testing.T) {
		salaries, err := svc.GetSalaries(user.ID, 0)
		testutil.AssertNoError(t, err)
		if len(salaries) != 3 {
			t.Fatalf("expected 3 salaries, got %d", len(salaries))
		}
		if salaries[0].Year != 2023 {
			t.Errorf("expected 2023 first, got %d", salaries[0].Year)
		}
	})

	t.Run("empty_is_not_nil", func(t *testing.T) {
		fresh := testutil.CreateTestUser(t, db)
		salaries, err := svc.GetSalaries(fresh.ID, 0)
		testutil.AssertNoError(t, err)
		if salaries == nil {
			t.Error("expected an empty slice, got nil")
		}
	})
}

func TestUpdateSalary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSalaryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	salary := testutil.CreateTestSalary(t, db, user.ID, 2024, 1, 1, 1000)

	t.Run("updates_amounts", func(t *testing.T) {
		net := decimal.NewFromInt(700)
		notes := "after raise"
		updated, err := svc.UpdateSalary(user.ID, salary.ID, SalaryUpdate{NetAmount: &net, Notes: &notes})
		testutil.AssertNoError(t, err)
		if !updated.NetAmount.Equal(net) || updated.Notes != notes {
			t.Errorf("unexpected salary after update: %+v", updated)
		}
		if updated.Year != 2024 || updated.Month != 1 {
			t.Error("expected natural key to be unchanged")
		}
	})

	t.Run("other_user", func(t *testing.T) {
		notes := "x"
		_, err := svc.UpdateSalary(other.ID, salary.ID, SalaryUpdate{Notes: &notes})
		testutil.AssertAppError(t, err, "SALARY_NOT_FOUND")
	})
}

func TestDeleteSalary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSalaryService(db)
	user := testutil.CreateTestUser(t, db)
	salary := testutil.CreateTestSalary(t, db, user.ID, 2024, 1, 1, 1000)

	testutil.AssertNoError(t, svc.DeleteSalary(user.ID, salary.ID))

	var count int64
	db.Unscoped().Model(&models.Salary{}).Where("id = ?", salary.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected row to be removed, found %d", count)
	}

	// The natural key is free again.
	_, err := svc.UpsertSalary(user.ID, salaryInput(2024, 1, 1, 2000))
	testutil.AssertNoError(t, err)

	err = svc.DeleteSalary(user.ID, salary.ID)
	testutil.AssertAppError(t, err, "SALARY_NOT_FOUND")
}

func TestSalaryGetAguinaldo(t *testing.T) {
	t.Run("window_in_chronological_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSalaryService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestSalary(t, db, user.ID, 2024, 6, 1, 600)
		testutil.CreateTestSalary(t, db, user.ID, 2024, 1, 2, 120)
		testutil.CreateTestSalary(t, db, user.ID, 2023, 12, 1, 1200)
		testutil.CreateTestSalary(t, db, user.ID, 2024, 1, 1, 120)

		report, err := svc.GetAguinaldo(user.ID, 2024)
		testutil.AssertNoError(t, err)

		want := []struct{ year, month, payment int }{
			{2023, 12, 1}, {2024, 1, 1}, {2024, 1, 2}, {2024, 6, 1},
		}
		if len(report.Payments) != len(want) {
			t.Fatalf("expected %d payments, got %d", len(want), len(report.Payments))
		}
		for i, w := range want {
			got := report.Payments[i]
			if got.Year != w.year || got.Month != w.month || got.PaymentNumber != w.payment {
				t.Errorf("payment %d: expected %v, got %d-%d #%d", i, w, got.Year, got.Month, got.PaymentNumber)
			}
		}
		if report.From != "2023-12-01" || report.To != "2024-11-30" {
			t.Errorf("unexpected window %s..%s", report.From, report.To)
		}
		if len(report.Summary.Currencies) != 1 {
			t.Fatalf("expected one currency, got %d", len(report.Summary.Currencies))
		}
		if !report.Summary.Currencies[0].Earned.Equal(decimal.NewFromInt(2040)) {
			t.Errorf("expected earned 2040, got %s", report.Summary.Currencies[0].Earned)
		}
	})

	t.Run("excludes_months_outside_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSalaryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestSalary(t, db, user.ID, 2024, 12, 1, 100)
		testutil.CreateTestSalary(t, db, user.ID, 2023, 11, 1, 100)
		testutil.CreateTestSalary(t, db, user.ID, 2022, 12, 1, 100)
		testutil.CreateTestSalary(t, db, other.ID, 2024, 3, 1, 100)

		report, err := svc.GetAguinaldo(user.ID, 2024)
		testutil.AssertNoError(t, err)
		if len(report.Payments) != 0 {
			t.Errorf("expected no payments, got %d", len(report.Payments))
		}
		if report.Payments == nil {
			t.Error("expected an empty slice, got nil")
		}
	})

	t.Run("year_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSalaryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetAguinaldo(user.ID, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
